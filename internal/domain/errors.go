package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDisciplineNotFound indicates an unknown discipline ID.
	ErrDisciplineNotFound = errors.New("discipline not found")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates an unknown question ID.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrNoQuestions is returned when a quiz without questions is submitted;
	// a percentage score cannot be computed.
	ErrNoQuestions = errors.New("quiz has no questions")
	// ErrProgressNotFound indicates no progress record exists for the lookup.
	ErrProgressNotFound = errors.New("progress record not found")
	// ErrUserNotFound indicates an unknown user account.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken covers expired, malformed, and revoked tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrForbidden is returned when a user acts on another user's data.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError carries field-level detail for malformed input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
