package memory

import (
	"context"
	"errors"
	"testing"

	"learnquiz-service/internal/app"
	"learnquiz-service/internal/domain"
)

func TestStoreRunCommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := seededStore()

	err := store.Run(ctx, func(ctx context.Context, tx app.SubmissionStore) error {
		rec := domain.ProgressRecord{UserID: 1, QuizID: 1, Score: 80, Completed: true}
		if err := tx.UpsertProgress(ctx, &rec); err != nil {
			return err
		}
		state, err := tx.GetOrCreateStreak(ctx, 1)
		if err != nil {
			return err
		}
		state.CurrentStreak = 1
		state.LongestStreak = 1
		return tx.SaveStreak(ctx, &state)
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	scores, err := store.Progress().ListForUser(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 80 {
		t.Fatalf("expected committed progress record, got %+v", scores)
	}
	state, err := store.Streaks().GetOrCreate(ctx, 1)
	if err != nil {
		t.Fatalf("get streak: %v", err)
	}
	if state.CurrentStreak != 1 {
		t.Fatalf("expected committed streak, got %+v", state)
	}
}

func TestStoreRunRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := seededStore()
	boom := errors.New("boom")

	err := store.Run(ctx, func(ctx context.Context, tx app.SubmissionStore) error {
		rec := domain.ProgressRecord{UserID: 1, QuizID: 1, Score: 80, Completed: true}
		if err := tx.UpsertProgress(ctx, &rec); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}

	scores, err := store.Progress().ListForUser(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(scores) != 0 {
		t.Fatalf("expected no committed records after rollback, got %+v", scores)
	}
}

func TestUserRepoRejectsDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	alice := domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	if err := store.Users().Create(ctx, &alice); err != nil {
		t.Fatalf("create: %v", err)
	}
	dupe := domain.User{Username: "alice", Email: "other@example.com", PasswordHash: "y"}
	var verr *domain.ValidationError
	if err := store.Users().Create(ctx, &dupe); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for duplicate username, got %v", err)
	}
}

func TestListQuestionsAndAnswersOrdered(t *testing.T) {
	ctx := context.Background()
	store := seededStore()

	questions, err := store.ListQuestions(ctx)
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if len(questions) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(questions))
	}
	for i := 1; i < len(questions); i++ {
		if questions[i-1].ID > questions[i].ID {
			t.Fatalf("questions out of order at %d", i)
		}
	}

	answers, err := store.ListAnswers(ctx)
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	if len(answers) != 11 {
		t.Fatalf("expected 11 answers, got %d", len(answers))
	}
}
