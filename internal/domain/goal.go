package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Goal-specific validation errors
var (
	// ErrGoalIDEmpty is returned when a goal ID is empty or nil.
	ErrGoalIDEmpty = errors.New("goal ID cannot be empty")

	// ErrGoalTargetInvalid is returned when a goal's target amount is
	// not positive.
	ErrGoalTargetInvalid = errors.New("goal target amount must be positive")

	// ErrGoalContributionInvalid is returned when a contribution is not
	// positive.
	ErrGoalContributionInvalid = errors.New("goal contribution must be positive")
)

// SavingsGoal is a learner-defined savings target. Completed becomes
// true exactly when CurrentAmount reaches TargetAmount and never
// reverts, even if the target is later raised by a new goal.
type SavingsGoal struct {
	ID            uuid.UUID `json:"id"`
	LearnerID     uuid.UUID `json:"learner_id"`
	Name          string    `json:"name"`
	TargetAmount  float64   `json:"target_amount"`
	CurrentAmount float64   `json:"current_amount"`
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewSavingsGoal creates a goal with nothing saved yet.
func NewSavingsGoal(learnerID uuid.UUID, name string, targetAmount float64) (*SavingsGoal, error) {
	now := time.Now().UTC()
	goal := &SavingsGoal{
		ID:           uuid.New(),
		LearnerID:    learnerID,
		Name:         name,
		TargetAmount: targetAmount,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := goal.Validate(); err != nil {
		return nil, err
	}

	return goal, nil
}

// Contribute adds amount to the goal and flips Completed when the
// target is reached. Returns true exactly once, on the contribution
// that crosses the target.
func (g *SavingsGoal) Contribute(amount float64, now time.Time) (completedNow bool, err error) {
	if amount <= 0 {
		return false, ErrGoalContributionInvalid
	}

	g.CurrentAmount += amount
	g.UpdatedAt = now

	if !g.Completed && g.CurrentAmount >= g.TargetAmount {
		g.Completed = true
		return true, nil
	}

	return false, nil
}

// Validate checks if the SavingsGoal has valid data.
// Returns an error if any field fails validation.
func (g *SavingsGoal) Validate() error {
	if g.ID == uuid.Nil {
		return ErrGoalIDEmpty
	}

	if g.LearnerID == uuid.Nil {
		return ErrLearnerIDEmpty
	}

	if g.TargetAmount <= 0 {
		return ErrGoalTargetInvalid
	}

	if g.CurrentAmount < 0 {
		return ErrValidation
	}

	return nil
}
