package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"learnquiz-service/internal/domain"
)

// CatalogStore serves catalog listings and counts via bun.
type CatalogStore struct {
	db *bun.DB
}

func NewCatalogStore(db *bun.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

func (s *CatalogStore) ListDisciplines(ctx context.Context) ([]domain.DisciplineSummary, error) {
	var rows []struct {
		ID        int64  `bun:"id"`
		Name      string `bun:"name"`
		Slug      string `bun:"slug"`
		QuizCount int    `bun:"quiz_count"`
	}
	err := s.db.NewSelect().
		TableExpr("disciplines AS d").
		ColumnExpr("d.id, d.name, d.slug").
		ColumnExpr("count(q.id) AS quiz_count").
		Join("LEFT JOIN quizzes AS q ON q.discipline_id = d.id").
		GroupExpr("d.id").
		OrderExpr("d.id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("list disciplines: %w", err)
	}

	out := make([]domain.DisciplineSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.DisciplineSummary{
			Discipline: domain.Discipline{ID: r.ID, Name: r.Name, Slug: r.Slug},
			QuizCount:  r.QuizCount,
		})
	}
	return out, nil
}

func (s *CatalogStore) GetDiscipline(ctx context.Context, id int64) (domain.Discipline, error) {
	row := new(disciplineRow)
	err := s.db.NewSelect().Model(row).Where("d.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Discipline{}, domain.ErrDisciplineNotFound
	}
	if err != nil {
		return domain.Discipline{}, fmt.Errorf("get discipline: %w", err)
	}
	return domain.Discipline{ID: row.ID, Name: row.Name, Slug: row.Slug}, nil
}

func (s *CatalogStore) ListQuizzes(ctx context.Context, disciplineID, userID int64) ([]domain.QuizSummary, error) {
	var rows []struct {
		ID            int64    `bun:"id"`
		Title         string   `bun:"title"`
		Slug          string   `bun:"slug"`
		DisciplineID  int64    `bun:"discipline_id"`
		QuestionCount int      `bun:"question_count"`
		UserScore     *float64 `bun:"user_score"`
	}

	query := s.db.NewSelect().
		TableExpr("quizzes AS q").
		ColumnExpr("q.id, q.title, q.slug, q.discipline_id").
		ColumnExpr("count(DISTINCT qs.id) AS question_count").
		Join("LEFT JOIN questions AS qs ON qs.quiz_id = q.id").
		OrderExpr("q.id")
	if disciplineID != 0 {
		query = query.Where("q.discipline_id = ?", disciplineID)
	}
	if userID != 0 {
		query = query.
			ColumnExpr("pr.score AS user_score").
			Join("LEFT JOIN progress_records AS pr ON pr.quiz_id = q.id AND pr.user_id = ?", userID).
			GroupExpr("q.id, pr.score")
	} else {
		query = query.GroupExpr("q.id")
	}

	if err := query.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}

	out := make([]domain.QuizSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.QuizSummary{
			ID:            r.ID,
			Title:         r.Title,
			Slug:          r.Slug,
			DisciplineID:  r.DisciplineID,
			QuestionCount: r.QuestionCount,
			UserScore:     r.UserScore,
		})
	}
	return out, nil
}

func (s *CatalogStore) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	var questionRows []questionRow
	if err := s.db.NewSelect().Model(&questionRows).OrderExpr("qs.id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	var answerRows []answerRow
	if err := s.db.NewSelect().Model(&answerRows).OrderExpr("a.id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}

	byQuestion := make(map[int64][]domain.Answer)
	for _, a := range answerRows {
		byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], domain.Answer{
			ID:      a.ID,
			Content: a.Content,
			Correct: a.Correct,
		})
	}

	out := make([]domain.Question, 0, len(questionRows))
	for _, q := range questionRows {
		out = append(out, domain.Question{
			ID:      q.ID,
			Content: q.Content,
			QuizID:  q.QuizID,
			Answers: byQuestion[q.ID],
		})
	}
	return out, nil
}

func (s *CatalogStore) ListAnswers(ctx context.Context) ([]domain.Answer, error) {
	var rows []answerRow
	if err := s.db.NewSelect().Model(&rows).OrderExpr("a.id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	out := make([]domain.Answer, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Answer{ID: r.ID, Content: r.Content, Correct: r.Correct})
	}
	return out, nil
}
