package app

import (
	"context"
	"time"

	"learnquiz-service/internal/domain"
)

// SubmissionStore bundles the writes of one quiz submission. Implementations
// bind these to a single transaction.
type SubmissionStore interface {
	UpsertProgress(ctx context.Context, rec *domain.ProgressRecord) error
	GetOrCreateStreak(ctx context.Context, userID int64) (domain.StreakState, error)
	SaveStreak(ctx context.Context, state *domain.StreakState) error
}

// UnitOfWork runs fn against a SubmissionStore atomically: the progress
// upsert and the streak advance both persist, or neither does.
type UnitOfWork interface {
	Run(ctx context.Context, fn func(ctx context.Context, store SubmissionStore) error) error
}

// SubmissionResponse is the combined outcome of one submission.
type SubmissionResponse struct {
	domain.SubmissionResult
	StreakInfo domain.StreakInfo `json:"streak_info"`
}

// QuizService orchestrates the submission flow: evaluate, then record
// progress and advance the streak in one unit of work.
type QuizService struct {
	quizzes  QuizRepository
	profiles ProfileRepository
	uow      UnitOfWork
	now      func() time.Time
}

func NewQuizService(quizzes QuizRepository, profiles ProfileRepository, uow UnitOfWork) *QuizService {
	return &QuizService{quizzes: quizzes, profiles: profiles, uow: uow, now: time.Now}
}

// NewQuizServiceWithClock is test-only for deterministic dates.
func NewQuizServiceWithClock(quizzes QuizRepository, profiles ProfileRepository, uow UnitOfWork, now func() time.Time) *QuizService {
	return &QuizService{quizzes: quizzes, profiles: profiles, uow: uow, now: now}
}

// Submit grades the selections for a quiz and durably records the score and
// streak advancement together. tzOverride follows the same resolution rules
// as StreakService.Update.
func (s *QuizService) Submit(ctx context.Context, quizID, userID int64, selections map[int64]int64, tzOverride string) (SubmissionResponse, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return SubmissionResponse{}, err
	}

	result, err := Evaluate(quiz, selections)
	if err != nil {
		return SubmissionResponse{}, err
	}

	today, err := s.today(ctx, userID, tzOverride)
	if err != nil {
		return SubmissionResponse{}, err
	}

	var info domain.StreakInfo
	err = s.uow.Run(ctx, func(ctx context.Context, store SubmissionStore) error {
		rec := domain.ProgressRecord{
			UserID:    userID,
			QuizID:    quizID,
			Score:     result.Score,
			Completed: result.Passed,
		}
		if err := store.UpsertProgress(ctx, &rec); err != nil {
			return err
		}

		streak, err := store.GetOrCreateStreak(ctx, userID)
		if err != nil {
			return err
		}
		updated := advanceStreak(&streak, today)
		if updated {
			if err := store.SaveStreak(ctx, &streak); err != nil {
				return err
			}
		}
		info = streakInfo(streak, updated)
		return nil
	})
	if err != nil {
		return SubmissionResponse{}, err
	}

	return SubmissionResponse{SubmissionResult: result, StreakInfo: info}, nil
}

func (s *QuizService) today(ctx context.Context, userID int64, tzOverride string) (domain.Date, error) {
	if tzOverride != "" {
		if loc, err := time.LoadLocation(tzOverride); err == nil {
			return domain.NewDate(s.now().In(loc)), nil
		}
	}
	profile, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return domain.Date{}, err
	}
	return domain.NewDate(s.now().In(resolveLocation(profile.Timezone))), nil
}
