package app

import (
	"context"
	"sort"

	"learnquiz-service/internal/domain"
)

// ProgressRepository persists per-(user, quiz) score records.
type ProgressRepository interface {
	// Upsert overwrites the record for (UserID, QuizID) or creates it.
	Upsert(ctx context.Context, rec *domain.ProgressRecord) error
	GetByID(ctx context.Context, id int64) (domain.ProgressRecord, error)
	// ListForUser returns the user's records enriched with quiz and
	// discipline context, ordered by record ID.
	ListForUser(ctx context.Context, userID int64) ([]domain.UserScore, error)
}

// ProgressService exposes owner-scoped reads and writes of progress records.
// Every operation takes the requesting user's ID; cross-user access is
// rejected with domain.ErrForbidden.
type ProgressService struct {
	records ProgressRepository
}

func NewProgressService(records ProgressRepository) *ProgressService {
	return &ProgressService{records: records}
}

// Record validates and upserts a directly supplied score for the user.
func (s *ProgressService) Record(ctx context.Context, userID, quizID int64, score float64) (domain.ProgressRecord, error) {
	if err := validateScore(score); err != nil {
		return domain.ProgressRecord{}, err
	}
	rec := domain.ProgressRecord{
		UserID:    userID,
		QuizID:    quizID,
		Score:     score,
		Completed: domain.Passed(score),
	}
	if err := s.records.Upsert(ctx, &rec); err != nil {
		return domain.ProgressRecord{}, err
	}
	return rec, nil
}

// Get returns one record by ID, enforcing ownership.
func (s *ProgressService) Get(ctx context.Context, userID, recordID int64) (domain.ProgressRecord, error) {
	rec, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		return domain.ProgressRecord{}, err
	}
	if rec.UserID != userID {
		return domain.ProgressRecord{}, domain.ErrForbidden
	}
	return rec, nil
}

// Update overwrites the score of an existing record, enforcing ownership.
func (s *ProgressService) Update(ctx context.Context, userID, recordID int64, score float64) (domain.ProgressRecord, error) {
	rec, err := s.Get(ctx, userID, recordID)
	if err != nil {
		return domain.ProgressRecord{}, err
	}
	if err := validateScore(score); err != nil {
		return domain.ProgressRecord{}, err
	}
	rec.Score = score
	rec.Completed = domain.Passed(score)
	if err := s.records.Upsert(ctx, &rec); err != nil {
		return domain.ProgressRecord{}, err
	}
	return rec, nil
}

// List returns all of the user's records with catalog context.
func (s *ProgressService) List(ctx context.Context, userID int64) ([]domain.UserScore, error) {
	return s.records.ListForUser(ctx, userID)
}

// ListByDiscipline filters the user's records to one discipline.
func (s *ProgressService) ListByDiscipline(ctx context.Context, userID, disciplineID int64) ([]domain.UserScore, error) {
	all, err := s.records.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	filtered := make([]domain.UserScore, 0, len(all))
	for _, rec := range all {
		if rec.DisciplineID == disciplineID {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

// Summary aggregates the user's full record set: totals, overall mean, and
// a per-discipline breakdown.
func (s *ProgressService) Summary(ctx context.Context, userID int64) (domain.ProgressSummary, error) {
	records, err := s.records.ListForUser(ctx, userID)
	if err != nil {
		return domain.ProgressSummary{}, err
	}
	return summarize(records), nil
}

func summarize(records []domain.UserScore) domain.ProgressSummary {
	summary := domain.ProgressSummary{
		TotalAttempted: len(records),
		ByDiscipline:   []domain.DisciplineProgress{},
	}

	var totalScore float64
	groups := make(map[int64]*domain.DisciplineProgress)
	sums := make(map[int64]float64)
	for _, rec := range records {
		totalScore += rec.Score
		if rec.Completed {
			summary.TotalCompleted++
		}

		group, ok := groups[rec.DisciplineID]
		if !ok {
			group = &domain.DisciplineProgress{
				DisciplineID:   rec.DisciplineID,
				DisciplineName: rec.DisciplineName,
			}
			groups[rec.DisciplineID] = group
		}
		group.Attempted++
		if rec.Completed {
			group.Completed++
		}
		sums[rec.DisciplineID] += rec.Score
	}

	if len(records) > 0 {
		summary.AverageScore = totalScore / float64(len(records))
	}
	for id, group := range groups {
		group.AverageScore = sums[id] / float64(group.Attempted)
		summary.ByDiscipline = append(summary.ByDiscipline, *group)
	}
	sort.Slice(summary.ByDiscipline, func(i, j int) bool {
		return summary.ByDiscipline[i].DisciplineID < summary.ByDiscipline[j].DisciplineID
	})
	return summary
}

func validateScore(score float64) error {
	if score < 0 || score > 100 {
		return domain.NewValidationError("score", "must be between 0 and 100")
	}
	return nil
}
