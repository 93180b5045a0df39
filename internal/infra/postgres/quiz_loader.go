package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"learnquiz-service/internal/domain"
)

// QuizLoader hydrates a full quiz (questions and answers) from Postgres
// with explicit queries; relationship traversal never happens lazily.
type QuizLoader struct {
	pool *pgxpool.Pool
}

func NewQuizLoader(pool *pgxpool.Pool) *QuizLoader {
	return &QuizLoader{pool: pool}
}

func (l *QuizLoader) LoadQuiz(ctx context.Context, quizID int64) (domain.Quiz, error) {
	var quiz domain.Quiz
	err := l.pool.QueryRow(ctx,
		`SELECT id, title, slug, discipline_id FROM quizzes WHERE id=$1`, quizID,
	).Scan(&quiz.ID, &quiz.Title, &quiz.Slug, &quiz.DisciplineID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}

	rows, err := l.pool.Query(ctx,
		`SELECT id, content FROM questions WHERE quiz_id=$1 ORDER BY id`, quizID)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	index := make(map[int64]int)
	for rows.Next() {
		q := domain.Question{QuizID: quizID}
		if err := rows.Scan(&q.ID, &q.Content); err != nil {
			return domain.Quiz{}, fmt.Errorf("scan question: %w", err)
		}
		index[q.ID] = len(quiz.Questions)
		quiz.Questions = append(quiz.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return domain.Quiz{}, fmt.Errorf("load questions: %w", err)
	}

	answerRows, err := l.pool.Query(ctx,
		`SELECT a.id, a.content, a.correct, a.question_id
		   FROM answers a
		   JOIN questions q ON q.id = a.question_id
		  WHERE q.quiz_id=$1
		  ORDER BY a.id`, quizID)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load answers: %w", err)
	}
	defer answerRows.Close()

	for answerRows.Next() {
		var a domain.Answer
		var questionID int64
		if err := answerRows.Scan(&a.ID, &a.Content, &a.Correct, &questionID); err != nil {
			return domain.Quiz{}, fmt.Errorf("scan answer: %w", err)
		}
		if i, ok := index[questionID]; ok {
			quiz.Questions[i].Answers = append(quiz.Questions[i].Answers, a)
		}
	}
	if err := answerRows.Err(); err != nil {
		return domain.Quiz{}, fmt.Errorf("load answers: %w", err)
	}

	return quiz, nil
}
