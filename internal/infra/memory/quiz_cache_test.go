package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"learnquiz-service/internal/domain"
)

type countingLoader struct {
	store *Store
	calls int
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID int64) (domain.Quiz, error) {
	l.calls++
	return l.store.LoadQuiz(ctx, quizID)
}

func seededStore() *Store {
	store := NewStore()
	store.SeedCatalog(SampleCatalog())
	return store
}

func TestQuizCacheServesFromMemory(t *testing.T) {
	loader := &countingLoader{store: seededStore()}
	cache := NewQuizCache(loader, time.Minute)

	quiz, err := cache.GetQuiz(context.Background(), 1)
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if quiz.Title != "Contracts 101" {
		t.Fatalf("unexpected quiz: %+v", quiz)
	}

	if _, err := cache.GetQuiz(context.Background(), 1); err != nil {
		t.Fatalf("get quiz again: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected a single loader call, got %d", loader.calls)
	}
}

func TestQuizCacheExpires(t *testing.T) {
	loader := &countingLoader{store: seededStore()}
	cache := NewQuizCache(loader, time.Minute)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cache.clock = func() time.Time { return now }

	if _, err := cache.GetQuiz(context.Background(), 1); err != nil {
		t.Fatalf("get quiz: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := cache.GetQuiz(context.Background(), 1); err != nil {
		t.Fatalf("get quiz after expiry: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after TTL, got %d calls", loader.calls)
	}
}

func TestQuizCacheMissPropagates(t *testing.T) {
	cache := NewQuizCache(&countingLoader{store: seededStore()}, time.Minute)

	if _, err := cache.GetQuiz(context.Background(), 99); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}
