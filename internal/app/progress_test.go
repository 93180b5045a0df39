package app_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"learnquiz-service/internal/app"
	"learnquiz-service/internal/domain"
	"learnquiz-service/internal/infra/memory"
)

func newProgressFixture() (*app.ProgressService, *memory.Store) {
	store := memory.NewStore()
	store.SeedCatalog(memory.SampleCatalog())
	return app.NewProgressService(store.Progress()), store
}

func TestRecordValidatesScore(t *testing.T) {
	ctx := context.Background()
	service, _ := newProgressFixture()

	for _, score := range []float64{-1, 100.5} {
		_, err := service.Record(ctx, 1, 1, score)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("score %f: expected validation error, got %v", score, err)
		}
		if verr.Field != "score" {
			t.Fatalf("expected score field, got %q", verr.Field)
		}
	}
}

func TestRecordUpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	service, _ := newProgressFixture()

	first, err := service.Record(ctx, 1, 1, 40)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	second, err := service.Record(ctx, 1, 1, 90)
	if err != nil {
		t.Fatalf("record again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("resubmission must reuse the record, got IDs %d and %d", first.ID, second.ID)
	}
	if !second.Completed {
		t.Fatalf("score 90 should mark the quiz completed")
	}

	scores, err := service.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("expected a single record per (user, quiz), got %d", len(scores))
	}
	if scores[0].Score != 90 {
		t.Fatalf("expected latest score 90, got %f", scores[0].Score)
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	ctx := context.Background()
	service, _ := newProgressFixture()

	rec, err := service.Record(ctx, 1, 1, 80)
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if _, err := service.Get(ctx, 2, rec.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for another user, got %v", err)
	}
	if _, err := service.Get(ctx, 1, rec.ID); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := service.Get(ctx, 1, 999); !errors.Is(err, domain.ErrProgressNotFound) {
		t.Fatalf("expected ErrProgressNotFound, got %v", err)
	}
}

func TestUpdateRewritesScore(t *testing.T) {
	ctx := context.Background()
	service, _ := newProgressFixture()

	rec, err := service.Record(ctx, 1, 1, 50)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	updated, err := service.Update(ctx, 1, rec.ID, 75)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Score != 75 || !updated.Completed {
		t.Fatalf("expected completed record at 75, got %+v", updated)
	}
	if _, err := service.Update(ctx, 2, rec.ID, 75); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestSummaryAggregatesByDiscipline(t *testing.T) {
	ctx := context.Background()
	service, _ := newProgressFixture()

	if _, err := service.Record(ctx, 1, 1, 80); err != nil {
		t.Fatalf("record quiz 1: %v", err)
	}
	if _, err := service.Record(ctx, 1, 2, 50); err != nil {
		t.Fatalf("record quiz 2: %v", err)
	}

	summary, err := service.Summary(ctx, 1)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalAttempted != 2 || summary.TotalCompleted != 1 {
		t.Fatalf("expected 2 attempted / 1 completed, got %+v", summary)
	}
	if math.Abs(summary.AverageScore-65) > 1e-9 {
		t.Fatalf("expected average 65, got %f", summary.AverageScore)
	}
	if len(summary.ByDiscipline) != 2 {
		t.Fatalf("expected 2 discipline groups, got %d", len(summary.ByDiscipline))
	}
	contract := summary.ByDiscipline[0]
	if contract.DisciplineID != 1 || contract.DisciplineName != "Contract Law" {
		t.Fatalf("expected groups ordered by discipline ID, got %+v", contract)
	}
	if contract.Attempted != 1 || contract.Completed != 1 || contract.AverageScore != 80 {
		t.Fatalf("unexpected contract-law aggregate: %+v", contract)
	}
}

func TestSummaryEmpty(t *testing.T) {
	ctx := context.Background()
	service, _ := newProgressFixture()

	summary, err := service.Summary(ctx, 1)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalAttempted != 0 || summary.AverageScore != 0 {
		t.Fatalf("expected zeroed summary, got %+v", summary)
	}
	if summary.ByDiscipline == nil || len(summary.ByDiscipline) != 0 {
		t.Fatalf("expected empty (non-nil) discipline list, got %+v", summary.ByDiscipline)
	}
}

func TestListByDiscipline(t *testing.T) {
	ctx := context.Background()
	service, _ := newProgressFixture()

	if _, err := service.Record(ctx, 1, 1, 80); err != nil {
		t.Fatalf("record quiz 1: %v", err)
	}
	if _, err := service.Record(ctx, 1, 2, 50); err != nil {
		t.Fatalf("record quiz 2: %v", err)
	}

	scores, err := service.ListByDiscipline(ctx, 1, 2)
	if err != nil {
		t.Fatalf("list by discipline: %v", err)
	}
	if len(scores) != 1 || scores[0].QuizID != 2 {
		t.Fatalf("expected only the constitutional-law record, got %+v", scores)
	}
}
