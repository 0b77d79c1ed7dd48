package api

import (
	"github.com/google/uuid"

	"github.com/dchandra05/sprout-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the learner registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the learner login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// LearnerID is the unique identifier for the authenticated learner
	LearnerID uuid.UUID `json:"learner_id"`

	// Profile is the learner's profile with gamification aggregates
	Profile *domain.LearnerProfile `json:"profile"`

	// AccessToken is the JWT used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the JWT used to obtain new access tokens
	RefreshToken string `json:"refresh_token"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token
// refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SubmitQuizRequest defines the payload for a quiz submission. Answers
// maps zero-based question index to the chosen option index.
type SubmitQuizRequest struct {
	Answers map[int]int `json:"answers" validate:"required,min=1"`
}

// SetCellRequest defines the payload for a budget table cell edit.
type SetCellRequest struct {
	Month    int     `json:"month"    validate:"gte=0,lte=11"`
	Category string  `json:"category" validate:"required"`
	Value    float64 `json:"value"`
}

// CreateGoalRequest defines the payload for creating a savings goal.
type CreateGoalRequest struct {
	Name         string  `json:"name"          validate:"required,max=120"`
	TargetAmount float64 `json:"target_amount" validate:"required,gt=0"`
}

// ContributeRequest defines the payload for a savings goal contribution.
type ContributeRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}
