package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Award-specific validation errors
var (
	// ErrAwardReasonEmpty is returned when an XP award has no reason key.
	ErrAwardReasonEmpty = errors.New("xp award reason cannot be empty")

	// ErrAwardAmountInvalid is returned when an XP award amount is not positive.
	ErrAwardAmountInvalid = errors.New("xp award amount must be positive")
)

// XPAward is one row in the append-only XP ledger. Reason is a
// deterministic key for the triggering event (for example
// "unit:<unitID>" or "challenge:<challengeID>:<periodKey>"), unique
// per learner. Re-inserting the same reason is a no-op, which is what
// makes every XP grant in the engine idempotent under retries.
type XPAward struct {
	LearnerID uuid.UUID `json:"learner_id"`
	Reason    string    `json:"reason"`
	Amount    int       `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// NewXPAward creates a ledger entry for the given learner, reason key,
// and amount.
func NewXPAward(learnerID uuid.UUID, reason string, amount int) (*XPAward, error) {
	award := &XPAward{
		LearnerID: learnerID,
		Reason:    reason,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}

	if err := award.Validate(); err != nil {
		return nil, err
	}

	return award, nil
}

// Validate checks if the XPAward has valid data.
func (a *XPAward) Validate() error {
	if a.LearnerID == uuid.Nil {
		return ErrLearnerIDEmpty
	}

	if a.Reason == "" {
		return ErrAwardReasonEmpty
	}

	if a.Amount <= 0 {
		return ErrAwardAmountInvalid
	}

	return nil
}
