package postgres

import (
	"database/sql"
	"time"

	"github.com/uptrace/bun"

	"learnquiz-service/internal/domain"
)

type disciplineRow struct {
	bun.BaseModel `bun:"table:disciplines,alias:d"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull"`
	Slug string `bun:"slug,notnull,unique"`
}

type quizRow struct {
	bun.BaseModel `bun:"table:quizzes,alias:q"`

	ID           int64  `bun:"id,pk,autoincrement"`
	Title        string `bun:"title,notnull"`
	Slug         string `bun:"slug,notnull,unique"`
	DisciplineID int64  `bun:"discipline_id,notnull"`
}

type questionRow struct {
	bun.BaseModel `bun:"table:questions,alias:qs"`

	ID      int64  `bun:"id,pk,autoincrement"`
	Content string `bun:"content,notnull"`
	QuizID  int64  `bun:"quiz_id,notnull"`
}

type answerRow struct {
	bun.BaseModel `bun:"table:answers,alias:a"`

	ID         int64  `bun:"id,pk,autoincrement"`
	Content    string `bun:"content,notnull"`
	Correct    bool   `bun:"correct,notnull"`
	QuestionID int64  `bun:"question_id,notnull"`
}

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Username     string    `bun:"username,notnull,unique"`
	Email        string    `bun:"email,notnull"`
	PasswordHash string    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
}

type profileRow struct {
	bun.BaseModel `bun:"table:user_profiles,alias:up"`

	UserID   int64  `bun:"user_id,pk"`
	Timezone string `bun:"timezone,notnull"`
}

type refreshTokenRow struct {
	bun.BaseModel `bun:"table:refresh_tokens,alias:rt"`

	ID        string    `bun:"id,pk"`
	UserID    int64     `bun:"user_id,notnull"`
	ExpiresAt time.Time `bun:"expires_at,notnull"`
}

type progressRow struct {
	bun.BaseModel `bun:"table:progress_records,alias:pr"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    int64     `bun:"user_id,notnull"`
	QuizID    int64     `bun:"quiz_id,notnull"`
	Score     float64   `bun:"score,notnull"`
	Completed bool      `bun:"completed,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

type streakRow struct {
	bun.BaseModel `bun:"table:streak_states,alias:ss"`

	UserID         int64        `bun:"user_id,pk"`
	CurrentStreak  int          `bun:"current_streak,notnull"`
	LongestStreak  int          `bun:"longest_streak,notnull"`
	LastActiveDate sql.NullTime `bun:"last_active_date"`
	CreatedAt      time.Time    `bun:"created_at,notnull"`
	UpdatedAt      time.Time    `bun:"updated_at,notnull"`
}

func (r progressRow) toDomain() domain.ProgressRecord {
	return domain.ProgressRecord{
		ID:        r.ID,
		UserID:    r.UserID,
		QuizID:    r.QuizID,
		Score:     r.Score,
		Completed: r.Completed,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r streakRow) toDomain() domain.StreakState {
	state := domain.StreakState{
		UserID:        r.UserID,
		CurrentStreak: r.CurrentStreak,
		LongestStreak: r.LongestStreak,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.LastActiveDate.Valid {
		d := domain.NewDate(r.LastActiveDate.Time)
		state.LastActiveDate = &d
	}
	return state
}

func streakToRow(state domain.StreakState) streakRow {
	row := streakRow{
		UserID:        state.UserID,
		CurrentStreak: state.CurrentStreak,
		LongestStreak: state.LongestStreak,
		CreatedAt:     state.CreatedAt,
		UpdatedAt:     state.UpdatedAt,
	}
	if state.LastActiveDate != nil {
		row.LastActiveDate = sql.NullTime{Time: state.LastActiveDate.Time, Valid: true}
	}
	return row
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}
