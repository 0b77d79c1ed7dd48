package domain

import (
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// Learner-specific validation errors
var (
	// ErrLearnerIDEmpty is returned when a learner ID is empty or nil.
	ErrLearnerIDEmpty = errors.New("learner ID cannot be empty")

	// ErrNegativeXP is returned when experience points would go negative.
	// XP is an append-only aggregate; it is never subtracted.
	ErrNegativeXP = errors.New("experience points cannot be negative")

	// ErrNegativeStreak is returned when a streak counter is negative.
	ErrNegativeStreak = errors.New("streak cannot be negative")
)

// PasswordMinLength is the minimum acceptable password length.
const PasswordMinLength = 12

// LearnerProfile holds a learner's identity and gamification aggregates.
//
// The aggregates (XP, level, streaks, completion counters) are updated
// additively by the services, never recomputed by replaying history.
// Every XP mutation must go through the award ledger so concurrent
// triggers cannot double-count.
type LearnerProfile struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	HashedPassword   string    `json:"-"`
	XP               int       `json:"xp"`
	Level            int       `json:"level"`
	CurrentStreak    int       `json:"current_streak"`
	LongestStreak    int       `json:"longest_streak"`
	LessonsCompleted int       `json:"lessons_completed"`
	CoursesCompleted int       `json:"courses_completed"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewLearnerProfile creates a profile for a new learner with zeroed
// aggregates. The password is stored here in hashed form only; hashing
// is the store's responsibility and happens before this constructor is
// reached in the registration flow.
func NewLearnerProfile(email, hashedPassword string) (*LearnerProfile, error) {
	now := time.Now().UTC()
	profile := &LearnerProfile{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: hashedPassword,
		XP:             0,
		Level:          1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return profile, nil
}

// Validate checks if the LearnerProfile has valid data.
// Returns an error if any field fails validation.
func (p *LearnerProfile) Validate() error {
	if p.ID == uuid.Nil {
		return ErrLearnerIDEmpty
	}

	if _, err := mail.ParseAddress(p.Email); err != nil {
		return ErrInvalidEmail
	}

	if p.XP < 0 {
		return ErrNegativeXP
	}

	if p.CurrentStreak < 0 || p.LongestStreak < 0 {
		return ErrNegativeStreak
	}

	return nil
}
