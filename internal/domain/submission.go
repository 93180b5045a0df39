package domain

// Outcome classifies a user's selection for a single question.
type Outcome string

const (
	// OutcomeAnswered means a valid answer belonging to the question was selected.
	OutcomeAnswered Outcome = "answered"
	// OutcomeNotAnswered means the submission had no entry for the question.
	OutcomeNotAnswered Outcome = "not_answered"
	// OutcomeInvalidAnswer means the selected answer does not belong to the question.
	OutcomeInvalidAnswer Outcome = "invalid_answer"
)

// Sentinel texts surfaced in result payloads for missing selections.
const (
	NotAnsweredText   = "Not answered"
	InvalidAnswerText = "Invalid answer"
)

// QuestionResult is the graded outcome for one question of a submission.
type QuestionResult struct {
	QuestionID      int64   `json:"question_id"`
	Question        string  `json:"question"`
	UserAnswerID    *int64  `json:"user_answer_id"`
	UserAnswer      string  `json:"user_answer"`
	CorrectAnswerID int64   `json:"correct_answer_id"`
	CorrectAnswer   string  `json:"correct_answer"`
	IsCorrect       bool    `json:"is_correct"`
	Outcome         Outcome `json:"-"`
}

// SubmissionResult aggregates the graded questions of one quiz attempt.
type SubmissionResult struct {
	QuizID         int64            `json:"-"`
	Score          float64          `json:"score"`
	CorrectAnswers int              `json:"correct_answers"`
	TotalQuestions int              `json:"total_questions"`
	Results        []QuestionResult `json:"results"`
	Passed         bool             `json:"passed"`
}

// StreakInfo is the streak snapshot attached to a submission response.
type StreakInfo struct {
	CurrentStreak  int   `json:"current_streak"`
	LongestStreak  int   `json:"longest_streak"`
	StreakUpdated  bool  `json:"streak_updated"`
	LastActiveDate *Date `json:"last_active_date"`
}
