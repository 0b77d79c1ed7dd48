package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dchandra05/sprout-api/internal/domain"
	"github.com/dchandra05/sprout-api/internal/domain/budget"
	"github.com/dchandra05/sprout-api/internal/domain/progression"
	"github.com/dchandra05/sprout-api/internal/service"
	"github.com/dchandra05/sprout-api/internal/service/auth"
	"github.com/dchandra05/sprout-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unit locked", service.ErrUnitLocked, http.StatusForbidden},
		{"goal not owned", service.ErrGoalNotOwned, http.StatusForbidden},
		{"learner not found", store.ErrLearnerNotFound, http.StatusNotFound},
		{"unit not found", store.ErrUnitNotFound, http.StatusNotFound},
		{"unknown scenario", budget.ErrUnknownScenario, http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"quiz required", service.ErrQuizRequired, http.StatusConflict},
		{"challenge not met", service.ErrChallengeNotMet, http.StatusConflict},
		{"no quiz", service.ErrNoQuiz, http.StatusUnprocessableEntity},
		{"no questions", progression.ErrNoQuestions, http.StatusUnprocessableEntity},
		{"incomplete answers", progression.ErrIncompleteAnswers, http.StatusBadRequest},
		{"month out of range", budget.ErrMonthOutOfRange, http.StatusBadRequest},
		{"bad contribution", domain.ErrGoalContributionInvalid, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestMapErrorToStatusCodeUnwrapsWrappedErrors(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("while submitting: %w", service.ErrUnitLocked)
	assert.Equal(t, http.StatusForbidden, MapErrorToStatusCode(wrapped))

	svcErr := service.NewServiceError("submit_quiz", "gate rejected", service.ErrUnitLocked)
	assert.Equal(t, http.StatusForbidden, MapErrorToStatusCode(svcErr))
}

func TestGetSafeErrorMessageNeverLeaksInternals(t *testing.T) {
	t.Parallel()

	internal := errors.New("pq: duplicate key value violates unique constraint \"learner_profiles_email_key\"")
	msg := GetSafeErrorMessage(internal)
	assert.Equal(t, "An unexpected error occurred", msg)

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

func TestGetSafeErrorMessageKnownErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{service.ErrInvalidCredentials, "Invalid credentials"},
		{service.ErrUnitLocked, "Unit is locked: complete the previous unit first"},
		{store.ErrEmailExists, "Email already exists"},
		{progression.ErrIncompleteAnswers, "All questions must be answered"},
		{budget.ErrUnknownScenario, "Unknown budget scenario"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GetSafeErrorMessage(tt.err))
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := errors.New(
		"Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag",
	)
	assert.Equal(t, "Invalid Email: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
