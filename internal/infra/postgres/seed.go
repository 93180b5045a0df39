package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"learnquiz-service/internal/domain"
)

// SeedCatalog inserts disciplines and fully hydrated quizzes with their
// explicit IDs; rerunning is a no-op thanks to conflict skips.
func SeedCatalog(ctx context.Context, db *bun.DB, disciplines []domain.Discipline, quizzes []domain.Quiz) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, d := range disciplines {
			row := disciplineRow{ID: d.ID, Name: d.Name, Slug: d.Slug}
			if _, err := tx.NewInsert().Model(&row).On("CONFLICT (id) DO NOTHING").Exec(ctx); err != nil {
				return fmt.Errorf("seed discipline %q: %w", d.Slug, err)
			}
		}
		for _, q := range quizzes {
			row := quizRow{ID: q.ID, Title: q.Title, Slug: q.Slug, DisciplineID: q.DisciplineID}
			if _, err := tx.NewInsert().Model(&row).On("CONFLICT (id) DO NOTHING").Exec(ctx); err != nil {
				return fmt.Errorf("seed quiz %q: %w", q.Slug, err)
			}
			for _, question := range q.Questions {
				qRow := questionRow{ID: question.ID, Content: question.Content, QuizID: q.ID}
				if _, err := tx.NewInsert().Model(&qRow).On("CONFLICT (id) DO NOTHING").Exec(ctx); err != nil {
					return fmt.Errorf("seed question %d: %w", question.ID, err)
				}
				for _, answer := range question.Answers {
					aRow := answerRow{ID: answer.ID, Content: answer.Content, Correct: answer.Correct, QuestionID: question.ID}
					if _, err := tx.NewInsert().Model(&aRow).On("CONFLICT (id) DO NOTHING").Exec(ctx); err != nil {
						return fmt.Errorf("seed answer %d: %w", answer.ID, err)
					}
				}
			}
		}
		return nil
	})
}

// SeedUser creates a user account if the username is free.
func SeedUser(ctx context.Context, db *bun.DB, username, email, passwordHash string) error {
	row := userRow{Username: username, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	if _, err := db.NewInsert().Model(&row).On("CONFLICT (username) DO NOTHING").Exec(ctx); err != nil {
		return fmt.Errorf("seed user %q: %w", username, err)
	}
	return nil
}
