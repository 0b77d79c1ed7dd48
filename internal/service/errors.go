package service

import (
	"errors"
	"fmt"
)

// Common service-level errors
var (
	// ErrUnitLocked indicates the learner tried to act on a unit whose
	// predecessor in the sequence is not completed yet.
	ErrUnitLocked = errors.New("unit is locked")

	// ErrQuizRequired indicates a direct completion was attempted on a
	// unit that carries a quiz; such units complete only through a
	// passing submission.
	ErrQuizRequired = errors.New("unit requires a passing quiz submission")

	// ErrNoQuiz indicates a quiz submission was attempted on a unit that
	// has no questions.
	ErrNoQuiz = errors.New("unit has no quiz")

	// ErrInvalidCredentials indicates a login attempt with an unknown
	// email or wrong password. Deliberately indistinguishable between
	// the two cases.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrChallengeNotMet indicates a budget scenario confirmation was
	// attempted while the scenario's conditions do not hold.
	ErrChallengeNotMet = errors.New("scenario challenge conditions not met")

	// ErrGoalNotOwned indicates the learner does not own the savings goal.
	ErrGoalNotOwned = errors.New("unauthorized access: goal not owned by learner")
)

// ServiceError wraps errors from the services with additional context.
// This allows consumers to differentiate between error types using
// errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "submit_quiz", "login")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError for the given operation.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
