package app

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"learnquiz-service/internal/domain"
)

// UserRepository persists user accounts.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}

// TokenRepository persists opaque refresh tokens.
type TokenRepository interface {
	Create(ctx context.Context, token domain.RefreshToken) error
	Get(ctx context.Context, id string) (domain.RefreshToken, error)
	Delete(ctx context.Context, id string) error
}

// TokenPair is an access/refresh token pair.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthService issues and verifies bearer tokens. Access tokens are signed
// HS256 JWTs carrying the user ID; refresh tokens are opaque UUIDs persisted
// with a TTL and rotated on use.
type AuthService struct {
	users      UserRepository
	tokens     TokenRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewAuthService(users UserRepository, tokens TokenRepository, secret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// ObtainPair checks credentials and issues a fresh token pair.
func (s *AuthService) ObtainPair(ctx context.Context, username, password string) (TokenPair, error) {
	if username == "" {
		return TokenPair{}, domain.NewValidationError("username", "required")
	}
	if password == "" {
		return TokenPair{}, domain.NewValidationError("password", "required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return TokenPair{}, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return TokenPair{}, domain.ErrInvalidCredentials
	}
	return s.issuePair(ctx, user.ID)
}

// Refresh rotates a refresh token, issuing a new pair and invalidating the
// old refresh token.
func (s *AuthService) Refresh(ctx context.Context, refresh string) (TokenPair, error) {
	token, err := s.tokens.Get(ctx, refresh)
	if err != nil {
		return TokenPair{}, domain.ErrInvalidToken
	}
	if token.ExpiresAt.Before(s.now()) {
		_ = s.tokens.Delete(ctx, token.ID)
		return TokenPair{}, domain.ErrInvalidToken
	}
	if err := s.tokens.Delete(ctx, token.ID); err != nil {
		return TokenPair{}, err
	}
	return s.issuePair(ctx, token.UserID)
}

// Verify checks an access token's signature and expiry.
func (s *AuthService) Verify(access string) error {
	_, err := s.Authenticate(access)
	return err
}

// Authenticate parses an access token and returns the user ID it carries.
func (s *AuthService) Authenticate(access string) (int64, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(access, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return 0, domain.ErrInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidToken
	}
	return userID, nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AuthService) issuePair(ctx context.Context, userID int64) (TokenPair, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		ID:        uuid.NewString(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return TokenPair{}, err
	}

	refresh := domain.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(s.refreshTTL),
	}
	if err := s.tokens.Create(ctx, refresh); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh.ID}, nil
}
