package domain

import "time"

// Discipline is the root of the catalog hierarchy.
type Discipline struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// DisciplineSummary is a listing view with the quiz count precomputed.
type DisciplineSummary struct {
	Discipline
	QuizCount int `json:"quiz_count"`
}

// QuizSummary is a listing view of a quiz without its questions.
type QuizSummary struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	DisciplineID  int64    `json:"discipline"`
	QuestionCount int      `json:"question_count"`
	UserScore     *float64 `json:"user_score,omitempty"`
}

// Answer is one choice of a multiple-choice question.
type Answer struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
	Correct bool   `json:"correct"`
}

// Question models an MCQ question with exactly one correct answer.
// The evaluator treats the first answer flagged correct as the correct one
// if catalog data violates that invariant.
type Question struct {
	ID      int64    `json:"id"`
	Content string   `json:"content"`
	QuizID  int64    `json:"quiz"`
	Answers []Answer `json:"answers"`
}

// Quiz is a fully hydrated quiz: metadata plus questions and answers.
type Quiz struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	DisciplineID int64      `json:"discipline"`
	Questions    []Question `json:"questions"`
}

// TakeAnswer is an answer choice with the correct flag stripped.
type TakeAnswer struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
}

// TakeQuestion is a question presented for taking a quiz.
type TakeQuestion struct {
	ID      int64        `json:"id"`
	Content string       `json:"content"`
	Answers []TakeAnswer `json:"answers"`
}

// QuizTakeView presents a quiz to a taker without revealing correct answers.
type QuizTakeView struct {
	ID            int64          `json:"id"`
	Title         string         `json:"title"`
	QuestionCount int            `json:"question_count"`
	Questions     []TakeQuestion `json:"questions"`
}

// ProgressRecord holds one user's score for one quiz. At most one record
// exists per (user, quiz); a resubmission overwrites it in place.
type ProgressRecord struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	QuizID    int64     `json:"quiz"`
	Score     float64   `json:"score"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserScore is a progress record enriched with catalog context for display.
type UserScore struct {
	ProgressRecord
	QuizTitle      string `json:"quiz_title"`
	DisciplineID   int64  `json:"discipline_id"`
	DisciplineName string `json:"discipline_name"`
}

// DisciplineProgress is the per-discipline slice of a progress summary.
type DisciplineProgress struct {
	DisciplineID   int64   `json:"discipline_id"`
	DisciplineName string  `json:"discipline_name"`
	Attempted      int     `json:"attempted"`
	Completed      int     `json:"completed"`
	AverageScore   float64 `json:"average_score"`
}

// ProgressSummary aggregates a user's full record set.
type ProgressSummary struct {
	TotalAttempted int                  `json:"total_attempted"`
	TotalCompleted int                  `json:"total_completed"`
	AverageScore   float64              `json:"average_score"`
	ByDiscipline   []DisciplineProgress `json:"by_discipline"`
}

// RoadmapItem is one quiz on a discipline roadmap, annotated with the
// requesting user's progress.
type RoadmapItem struct {
	QuizID        int64    `json:"quiz_id"`
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	QuestionCount int      `json:"question_count"`
	Attempted     bool     `json:"attempted"`
	Completed     bool     `json:"completed"`
	Score         *float64 `json:"score"`
}

// Roadmap is the ordered learning path through one discipline.
type Roadmap struct {
	Discipline Discipline    `json:"discipline"`
	Items      []RoadmapItem `json:"items"`
}

// PassThreshold is the minimum percentage score considered a pass.
const PassThreshold = 100.0 * 0.7

// Passed reports whether a percentage score clears the pass threshold.
func Passed(score float64) bool {
	return score >= PassThreshold
}

// Date is a civil calendar date with day precision. It normalizes to
// midnight UTC and marshals as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate builds a Date from the calendar components of t, dropping the
// time of day and location.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	t, err := time.Parse(`"2006-01-02"`, s)
	if err != nil {
		return err
	}
	*d = NewDate(t)
	return nil
}

// DaysSince returns the whole number of days from other to d.
func (d Date) DaysSince(other Date) int {
	return int(d.Sub(other.Time) / (24 * time.Hour))
}

// StreakState tracks one user's consecutive-day activity streak.
// LastActiveDate is the civil date of the last activity in the user's timezone.
type StreakState struct {
	UserID         int64     `json:"user_id"`
	CurrentStreak  int       `json:"current_streak"`
	LongestStreak  int       `json:"longest_streak"`
	LastActiveDate *Date     `json:"last_active_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserProfile carries per-user settings; Timezone is an IANA identifier
// used to compute "today" for streak purposes.
type UserProfile struct {
	UserID   int64  `json:"user_id"`
	Timezone string `json:"timezone"`
}

// DefaultTimezone is used when a profile has no valid timezone set.
const DefaultTimezone = "UTC"

// User is a registered account. PasswordHash is a bcrypt hash and never
// leaves the service.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RefreshToken is an opaque, persisted token that can mint new access tokens.
type RefreshToken struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
