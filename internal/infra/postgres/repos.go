package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"learnquiz-service/internal/app"
	"learnquiz-service/internal/domain"
)

// UserRepo persists user accounts via bun.
type UserRepo struct {
	db *bun.DB
}

func NewUserRepo(db *bun.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	row := userRow{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    time.Now(),
	}
	if _, err := r.db.NewInsert().Model(&row).Returning("*").Exec(ctx); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	*user = row.toDomain()
	return nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	row := new(userRow)
	err := r.db.NewSelect().Model(row).Where("u.username = ?", username).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return row.toDomain(), nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	row := new(userRow)
	err := r.db.NewSelect().Model(row).Where("u.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return row.toDomain(), nil
}

// TokenRepo persists refresh tokens via bun.
type TokenRepo struct {
	db *bun.DB
}

func NewTokenRepo(db *bun.DB) *TokenRepo {
	return &TokenRepo{db: db}
}

func (r *TokenRepo) Create(ctx context.Context, token domain.RefreshToken) error {
	row := refreshTokenRow{ID: token.ID, UserID: token.UserID, ExpiresAt: token.ExpiresAt}
	if _, err := r.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

func (r *TokenRepo) Get(ctx context.Context, id string) (domain.RefreshToken, error) {
	row := new(refreshTokenRow)
	err := r.db.NewSelect().Model(row).Where("rt.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RefreshToken{}, domain.ErrInvalidToken
	}
	if err != nil {
		return domain.RefreshToken{}, fmt.Errorf("get refresh token: %w", err)
	}
	return domain.RefreshToken{ID: row.ID, UserID: row.UserID, ExpiresAt: row.ExpiresAt}, nil
}

func (r *TokenRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.NewDelete().Model((*refreshTokenRow)(nil)).Where("rt.id = ?", id).Exec(ctx); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

// ProfileRepo persists user profiles with get-or-create semantics.
type ProfileRepo struct {
	db *bun.DB
}

func NewProfileRepo(db *bun.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) GetOrCreate(ctx context.Context, userID int64) (domain.UserProfile, error) {
	return getOrCreateProfile(ctx, r.db, userID)
}

func (r *ProfileRepo) Save(ctx context.Context, profile domain.UserProfile) error {
	row := profileRow{UserID: profile.UserID, Timezone: profile.Timezone}
	_, err := r.db.NewInsert().Model(&row).
		On("CONFLICT (user_id) DO UPDATE").
		Set("timezone = EXCLUDED.timezone").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func getOrCreateProfile(ctx context.Context, db bun.IDB, userID int64) (domain.UserProfile, error) {
	row := profileRow{UserID: userID, Timezone: domain.DefaultTimezone}
	_, err := db.NewInsert().Model(&row).On("CONFLICT (user_id) DO NOTHING").Exec(ctx)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("create profile: %w", err)
	}
	got := new(profileRow)
	if err := db.NewSelect().Model(got).Where("up.user_id = ?", userID).Scan(ctx); err != nil {
		return domain.UserProfile{}, fmt.Errorf("get profile: %w", err)
	}
	return domain.UserProfile{UserID: got.UserID, Timezone: got.Timezone}, nil
}

// StreakRepo persists streak states with lazy creation.
type StreakRepo struct {
	db *bun.DB
}

func NewStreakRepo(db *bun.DB) *StreakRepo {
	return &StreakRepo{db: db}
}

func (r *StreakRepo) GetOrCreate(ctx context.Context, userID int64) (domain.StreakState, error) {
	return getOrCreateStreak(ctx, r.db, userID)
}

func (r *StreakRepo) Save(ctx context.Context, state *domain.StreakState) error {
	return saveStreak(ctx, r.db, state)
}

func getOrCreateStreak(ctx context.Context, db bun.IDB, userID int64) (domain.StreakState, error) {
	now := time.Now()
	row := streakRow{UserID: userID, CreatedAt: now, UpdatedAt: now}
	_, err := db.NewInsert().Model(&row).On("CONFLICT (user_id) DO NOTHING").Exec(ctx)
	if err != nil {
		return domain.StreakState{}, fmt.Errorf("create streak: %w", err)
	}
	got := new(streakRow)
	if err := db.NewSelect().Model(got).Where("ss.user_id = ?", userID).Scan(ctx); err != nil {
		return domain.StreakState{}, fmt.Errorf("get streak: %w", err)
	}
	return got.toDomain(), nil
}

func saveStreak(ctx context.Context, db bun.IDB, state *domain.StreakState) error {
	state.UpdatedAt = time.Now()
	row := streakToRow(*state)
	_, err := db.NewUpdate().Model(&row).
		Column("current_streak", "longest_streak", "last_active_date", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("save streak: %w", err)
	}
	return nil
}

// ProgressRepo persists per-(user, quiz) score records.
type ProgressRepo struct {
	db *bun.DB
}

func NewProgressRepo(db *bun.DB) *ProgressRepo {
	return &ProgressRepo{db: db}
}

func (r *ProgressRepo) Upsert(ctx context.Context, rec *domain.ProgressRecord) error {
	return upsertProgress(ctx, r.db, rec)
}

func upsertProgress(ctx context.Context, db bun.IDB, rec *domain.ProgressRecord) error {
	now := time.Now()
	row := progressRow{
		UserID:    rec.UserID,
		QuizID:    rec.QuizID,
		Score:     rec.Score,
		Completed: rec.Completed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := db.NewInsert().Model(&row).
		On("CONFLICT (user_id, quiz_id) DO UPDATE").
		Set("score = EXCLUDED.score").
		Set("completed = EXCLUDED.completed").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	*rec = row.toDomain()
	return nil
}

func (r *ProgressRepo) GetByID(ctx context.Context, id int64) (domain.ProgressRecord, error) {
	row := new(progressRow)
	err := r.db.NewSelect().Model(row).Where("pr.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ProgressRecord{}, domain.ErrProgressNotFound
	}
	if err != nil {
		return domain.ProgressRecord{}, fmt.Errorf("get progress: %w", err)
	}
	return row.toDomain(), nil
}

func (r *ProgressRepo) ListForUser(ctx context.Context, userID int64) ([]domain.UserScore, error) {
	var rows []struct {
		ID             int64     `bun:"id"`
		UserID         int64     `bun:"user_id"`
		QuizID         int64     `bun:"quiz_id"`
		Score          float64   `bun:"score"`
		Completed      bool      `bun:"completed"`
		CreatedAt      time.Time `bun:"created_at"`
		UpdatedAt      time.Time `bun:"updated_at"`
		QuizTitle      string    `bun:"quiz_title"`
		DisciplineID   int64     `bun:"discipline_id"`
		DisciplineName string    `bun:"discipline_name"`
	}
	err := r.db.NewSelect().
		TableExpr("progress_records AS pr").
		ColumnExpr("pr.id, pr.user_id, pr.quiz_id, pr.score, pr.completed, pr.created_at, pr.updated_at").
		ColumnExpr("q.title AS quiz_title").
		ColumnExpr("d.id AS discipline_id, d.name AS discipline_name").
		Join("JOIN quizzes AS q ON q.id = pr.quiz_id").
		Join("JOIN disciplines AS d ON d.id = q.discipline_id").
		Where("pr.user_id = ?", userID).
		OrderExpr("pr.id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	out := make([]domain.UserScore, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.UserScore{
			ProgressRecord: domain.ProgressRecord{
				ID:        r.ID,
				UserID:    r.UserID,
				QuizID:    r.QuizID,
				Score:     r.Score,
				Completed: r.Completed,
				CreatedAt: r.CreatedAt,
				UpdatedAt: r.UpdatedAt,
			},
			QuizTitle:      r.QuizTitle,
			DisciplineID:   r.DisciplineID,
			DisciplineName: r.DisciplineName,
		})
	}
	return out, nil
}

// UnitOfWork runs submission writes inside one bun transaction.
type UnitOfWork struct {
	db *bun.DB
}

func NewUnitOfWork(db *bun.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) Run(ctx context.Context, fn func(ctx context.Context, store app.SubmissionStore) error) error {
	return u.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &txStore{db: tx})
	})
}

type txStore struct {
	db bun.Tx
}

func (s *txStore) UpsertProgress(ctx context.Context, rec *domain.ProgressRecord) error {
	return upsertProgress(ctx, s.db, rec)
}

func (s *txStore) GetOrCreateStreak(ctx context.Context, userID int64) (domain.StreakState, error) {
	return getOrCreateStreak(ctx, s.db, userID)
}

func (s *txStore) SaveStreak(ctx context.Context, state *domain.StreakState) error {
	return saveStreak(ctx, s.db, state)
}
