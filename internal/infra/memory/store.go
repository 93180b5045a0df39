package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"learnquiz-service/internal/app"
	"learnquiz-service/internal/domain"
)

type progressKey struct {
	userID int64
	quizID int64
}

// Store is an in-memory backend for every repository the services need.
// It serves tests and the no-database demo mode. Repository views over the
// shared state are returned by Users, Tokens, Profiles, Streaks, and
// Progress; Store itself implements the catalog store, the quiz loader,
// and the submission unit of work.
type Store struct {
	mu          sync.RWMutex
	disciplines map[int64]domain.Discipline
	quizzes     map[int64]domain.Quiz
	users       map[int64]domain.User
	usersByName map[string]int64
	profiles    map[int64]domain.UserProfile
	streaks     map[int64]domain.StreakState
	progress    map[int64]domain.ProgressRecord
	progressIdx map[progressKey]int64
	tokens      map[string]domain.RefreshToken
	nextID      int64
	clock       func() time.Time
}

func NewStore() *Store {
	return &Store{
		disciplines: make(map[int64]domain.Discipline),
		quizzes:     make(map[int64]domain.Quiz),
		users:       make(map[int64]domain.User),
		usersByName: make(map[string]int64),
		profiles:    make(map[int64]domain.UserProfile),
		streaks:     make(map[int64]domain.StreakState),
		progress:    make(map[int64]domain.ProgressRecord),
		progressIdx: make(map[progressKey]int64),
		tokens:      make(map[string]domain.RefreshToken),
		nextID:      1,
		clock:       time.Now,
	}
}

// NewStoreWithClock is test-only for deterministic timestamps.
func NewStoreWithClock(now func() time.Time) *Store {
	s := NewStore()
	s.clock = now
	return s
}

// SeedCatalog loads disciplines and fully hydrated quizzes.
func (s *Store) SeedCatalog(disciplines []domain.Discipline, quizzes []domain.Quiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range disciplines {
		s.disciplines[d.ID] = d
	}
	for _, q := range quizzes {
		s.quizzes[q.ID] = q
	}
}

// LoadQuiz implements QuizLoader.
func (s *Store) LoadQuiz(_ context.Context, quizID int64) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

// --- app.CatalogStore ---

func (s *Store) ListDisciplines(context.Context) ([]domain.DisciplineSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.DisciplineSummary, 0, len(s.disciplines))
	for _, d := range s.disciplines {
		summary := domain.DisciplineSummary{Discipline: d}
		for _, q := range s.quizzes {
			if q.DisciplineID == d.ID {
				summary.QuizCount++
			}
		}
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetDiscipline(_ context.Context, id int64) (domain.Discipline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.disciplines[id]
	if !ok {
		return domain.Discipline{}, domain.ErrDisciplineNotFound
	}
	return d, nil
}

func (s *Store) ListQuizzes(_ context.Context, disciplineID, userID int64) ([]domain.QuizSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.QuizSummary, 0, len(s.quizzes))
	for _, q := range s.quizzes {
		if disciplineID != 0 && q.DisciplineID != disciplineID {
			continue
		}
		summary := domain.QuizSummary{
			ID:            q.ID,
			Title:         q.Title,
			Slug:          q.Slug,
			DisciplineID:  q.DisciplineID,
			QuestionCount: len(q.Questions),
		}
		if userID != 0 {
			if recID, ok := s.progressIdx[progressKey{userID, q.ID}]; ok {
				score := s.progress[recID].Score
				summary.UserScore = &score
			}
		}
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListQuestions(context.Context) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Question
	for _, q := range s.quizzes {
		out = append(out, q.Questions...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListAnswers(context.Context) ([]domain.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Answer
	for _, quiz := range s.quizzes {
		for _, q := range quiz.Questions {
			out = append(out, q.Answers...)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- repository views ---

func (s *Store) Users() app.UserRepository        { return userRepo{s} }
func (s *Store) Tokens() app.TokenRepository      { return tokenRepo{s} }
func (s *Store) Profiles() app.ProfileRepository  { return profileRepo{s} }
func (s *Store) Streaks() app.StreakRepository    { return streakRepo{s} }
func (s *Store) Progress() app.ProgressRepository { return progressRepo{s} }

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, taken := r.s.usersByName[user.Username]; taken {
		return domain.NewValidationError("username", "already in use")
	}
	user.ID = r.s.nextID
	r.s.nextID++
	user.CreatedAt = r.s.clock()
	r.s.users[user.ID] = *user
	r.s.usersByName[user.Username] = user.ID
	return nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.usersByName[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return r.s.users[id], nil
}

func (r userRepo) GetByID(_ context.Context, id int64) (domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, ok := r.s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

type tokenRepo struct{ s *Store }

func (r tokenRepo) Create(_ context.Context, token domain.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.tokens[token.ID] = token
	return nil
}

func (r tokenRepo) Get(_ context.Context, id string) (domain.RefreshToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	token, ok := r.s.tokens[id]
	if !ok {
		return domain.RefreshToken{}, domain.ErrInvalidToken
	}
	return token, nil
}

func (r tokenRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.tokens, id)
	return nil
}

type profileRepo struct{ s *Store }

func (r profileRepo) GetOrCreate(_ context.Context, userID int64) (domain.UserProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if profile, ok := r.s.profiles[userID]; ok {
		return profile, nil
	}
	profile := domain.UserProfile{UserID: userID, Timezone: domain.DefaultTimezone}
	r.s.profiles[userID] = profile
	return profile, nil
}

func (r profileRepo) Save(_ context.Context, profile domain.UserProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.profiles[profile.UserID] = profile
	return nil
}

type streakRepo struct{ s *Store }

func (r streakRepo) GetOrCreate(_ context.Context, userID int64) (domain.StreakState, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if state, ok := r.s.streaks[userID]; ok {
		return state, nil
	}
	now := r.s.clock()
	state := domain.StreakState{UserID: userID, CreatedAt: now, UpdatedAt: now}
	r.s.streaks[userID] = state
	return state, nil
}

func (r streakRepo) Save(_ context.Context, state *domain.StreakState) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	state.UpdatedAt = r.s.clock()
	r.s.streaks[state.UserID] = *state
	return nil
}

type progressRepo struct{ s *Store }

func (r progressRepo) Upsert(_ context.Context, rec *domain.ProgressRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	upsertProgress(r.s.progress, r.s.progressIdx, &r.s.nextID, r.s.clock(), rec)
	return nil
}

func (r progressRepo) GetByID(_ context.Context, id int64) (domain.ProgressRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.progress[id]
	if !ok {
		return domain.ProgressRecord{}, domain.ErrProgressNotFound
	}
	return rec, nil
}

func (r progressRepo) ListForUser(_ context.Context, userID int64) ([]domain.UserScore, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.UserScore{}
	for _, rec := range r.s.progress {
		if rec.UserID != userID {
			continue
		}
		score := domain.UserScore{ProgressRecord: rec}
		if quiz, ok := r.s.quizzes[rec.QuizID]; ok {
			score.QuizTitle = quiz.Title
			score.DisciplineID = quiz.DisciplineID
			if d, ok := r.s.disciplines[quiz.DisciplineID]; ok {
				score.DisciplineName = d.Name
			}
		}
		out = append(out, score)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- app.UnitOfWork ---

// Run applies fn to a transaction view and commits its writes only when fn
// succeeds, mirroring the all-or-nothing submission flow.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, store app.SubmissionStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{
		clock:       s.clock,
		progress:    cloneMap(s.progress),
		progressIdx: cloneMap(s.progressIdx),
		streaks:     cloneMap(s.streaks),
		nextID:      s.nextID,
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.progress = tx.progress
	s.progressIdx = tx.progressIdx
	s.streaks = tx.streaks
	s.nextID = tx.nextID
	return nil
}

type memTx struct {
	clock       func() time.Time
	progress    map[int64]domain.ProgressRecord
	progressIdx map[progressKey]int64
	streaks     map[int64]domain.StreakState
	nextID      int64
}

func (t *memTx) UpsertProgress(_ context.Context, rec *domain.ProgressRecord) error {
	upsertProgress(t.progress, t.progressIdx, &t.nextID, t.clock(), rec)
	return nil
}

func (t *memTx) GetOrCreateStreak(_ context.Context, userID int64) (domain.StreakState, error) {
	if state, ok := t.streaks[userID]; ok {
		return state, nil
	}
	now := t.clock()
	state := domain.StreakState{UserID: userID, CreatedAt: now, UpdatedAt: now}
	t.streaks[userID] = state
	return state, nil
}

func (t *memTx) SaveStreak(_ context.Context, state *domain.StreakState) error {
	state.UpdatedAt = t.clock()
	t.streaks[state.UserID] = *state
	return nil
}

func upsertProgress(records map[int64]domain.ProgressRecord, idx map[progressKey]int64, nextID *int64, now time.Time, rec *domain.ProgressRecord) {
	key := progressKey{rec.UserID, rec.QuizID}
	if id, ok := idx[key]; ok {
		existing := records[id]
		existing.Score = rec.Score
		existing.Completed = rec.Completed
		existing.UpdatedAt = now
		records[id] = existing
		*rec = existing
		return
	}
	rec.ID = *nextID
	*nextID++
	rec.CreatedAt = now
	rec.UpdatedAt = now
	records[rec.ID] = *rec
	idx[key] = rec.ID
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func quizKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
