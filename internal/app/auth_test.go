package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"learnquiz-service/internal/app"
	"learnquiz-service/internal/domain"
	"learnquiz-service/internal/infra/memory"
)

func newAuthFixture(t *testing.T) (*app.AuthService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	hash, err := app.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: hash}
	if err := store.Users().Create(context.Background(), &user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	service := app.NewAuthService(store.Users(), store.Tokens(), "test-secret", 15*time.Minute, time.Hour)
	return service, store
}

func TestObtainPairAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	service, _ := newAuthFixture(t)

	pair, err := service.ObtainPair(ctx, "alice", "s3cret-pass")
	if err != nil {
		t.Fatalf("obtain pair: %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}

	userID, err := service.Authenticate(pair.Access)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if userID != 1 {
		t.Fatalf("expected user 1, got %d", userID)
	}
	if err := service.Verify(pair.Access); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestObtainPairRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	service, _ := newAuthFixture(t)

	if _, err := service.ObtainPair(ctx, "alice", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := service.ObtainPair(ctx, "nobody", "s3cret-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}

	var verr *domain.ValidationError
	if _, err := service.ObtainPair(ctx, "", "s3cret-pass"); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for empty username, got %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	ctx := context.Background()
	service, _ := newAuthFixture(t)

	pair, err := service.ObtainPair(ctx, "alice", "s3cret-pass")
	if err != nil {
		t.Fatalf("obtain pair: %v", err)
	}

	next, err := service.Refresh(ctx, pair.Refresh)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if next.Refresh == pair.Refresh {
		t.Fatalf("refresh must rotate the token")
	}
	if _, err := service.Refresh(ctx, pair.Refresh); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("a used refresh token must be rejected, got %v", err)
	}
	if _, err := service.Authenticate(next.Access); err != nil {
		t.Fatalf("rotated access token should verify: %v", err)
	}
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	service, _ := newAuthFixture(t)

	if _, err := service.Authenticate("not-a-jwt"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	other := app.NewAuthService(nil, nil, "other-secret", time.Minute, time.Minute)
	pair, err := newAuthFixtureTokens(t)
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}
	if _, err := other.Authenticate(pair.Access); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("token signed with a different secret must be rejected, got %v", err)
	}
}

func newAuthFixtureTokens(t *testing.T) (app.TokenPair, error) {
	t.Helper()
	service, _ := newAuthFixture(t)
	return service.ObtainPair(context.Background(), "alice", "s3cret-pass")
}
