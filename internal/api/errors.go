package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dchandra05/sprout-api/internal/api/shared"
	"github.com/dchandra05/sprout-api/internal/domain"
	"github.com/dchandra05/sprout-api/internal/domain/budget"
	"github.com/dchandra05/sprout-api/internal/domain/progression"
	"github.com/dchandra05/sprout-api/internal/service"
	"github.com/dchandra05/sprout-api/internal/service/auth"
	"github.com/dchandra05/sprout-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrGoalNotOwned),
		errors.Is(err, service.ErrUnitLocked):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrLearnerNotFound),
		errors.Is(err, store.ErrUnitNotFound),
		errors.Is(err, store.ErrChallengeNotFound),
		errors.Is(err, store.ErrGoalNotFound),
		errors.Is(err, budget.ErrUnknownScenario):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, service.ErrQuizRequired),
		errors.Is(err, service.ErrChallengeNotMet):
		return http.StatusConflict

	// A quizless unit receiving a submission is a content configuration
	// problem, not a malformed request.
	case errors.Is(err, service.ErrNoQuiz),
		errors.Is(err, progression.ErrNoQuestions):
		return http.StatusUnprocessableEntity

	// Bad request errors
	case errors.Is(err, progression.ErrIncompleteAnswers),
		errors.Is(err, progression.ErrAnswerOutOfRange),
		errors.Is(err, budget.ErrMonthOutOfRange),
		errors.Is(err, budget.ErrUnknownCategory),
		errors.Is(err, domain.ErrGoalContributionInvalid),
		errors.Is(err, domain.ErrGoalTargetInvalid),
		errors.Is(err, domain.ErrInvalidPassword),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken):
		return "Invalid refresh token"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, service.ErrUnitLocked):
		return "Unit is locked: complete the previous unit first"

	case errors.Is(err, service.ErrGoalNotOwned):
		return "You do not own this goal"

	case errors.Is(err, store.ErrLearnerNotFound):
		return "Learner not found"

	case errors.Is(err, store.ErrUnitNotFound):
		return "Unit not found"

	case errors.Is(err, store.ErrChallengeNotFound):
		return "Challenge not found"

	case errors.Is(err, store.ErrGoalNotFound):
		return "Goal not found"

	case errors.Is(err, budget.ErrUnknownScenario):
		return "Unknown budget scenario"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, service.ErrQuizRequired):
		return "This unit is completed by passing its quiz"

	case errors.Is(err, service.ErrChallengeNotMet):
		return "The scenario's challenge conditions are not met yet"

	case errors.Is(err, service.ErrNoQuiz),
		errors.Is(err, progression.ErrNoQuestions):
		return "This unit has no quiz"

	case errors.Is(err, progression.ErrIncompleteAnswers):
		return "All questions must be answered"

	case errors.Is(err, progression.ErrAnswerOutOfRange):
		return "Answer does not match any option"

	case errors.Is(err, budget.ErrMonthOutOfRange):
		return "Month must be between 0 and 11"

	case errors.Is(err, budget.ErrUnknownCategory):
		return "Unknown budget category for this scenario"

	case errors.Is(err, domain.ErrGoalContributionInvalid):
		return "Contribution must be positive"

	case errors.Is(err, domain.ErrGoalTargetInvalid):
		return "Goal target must be positive"

	case errors.Is(err, domain.ErrInvalidPassword):
		return "Password does not meet requirements"

	case errors.Is(err, domain.ErrInvalidEmail):
		return "Invalid email format"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation
// errors and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'LoginRequest.Email' Error:Field validation
	// for 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gt", "gte", "lte", "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError maps the error to a status code and safe message and
// writes the response, logging the underlying error. An explicit
// userMessage overrides the derived safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, userMessage, err)
}
