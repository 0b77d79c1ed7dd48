package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Challenge-specific validation errors
var (
	// ErrChallengeIDEmpty is returned when a challenge ID is empty or nil.
	ErrChallengeIDEmpty = errors.New("challenge ID cannot be empty")

	// ErrRequirementValueInvalid is returned when a challenge's target
	// count is not positive.
	ErrRequirementValueInvalid = errors.New("requirement value must be positive")

	// ErrProgressDecreased is returned when challenge progress would
	// move backwards within a period.
	ErrProgressDecreased = errors.New("challenge progress cannot decrease within a period")
)

// ChallengeType scopes how long a challenge's progress accumulates
// before resetting.
type ChallengeType string

const (
	// ChallengeDaily resets every UTC calendar day; each day gets its
	// own progress row.
	ChallengeDaily ChallengeType = "daily"

	// ChallengeWeekly accumulates across an ISO week.
	ChallengeWeekly ChallengeType = "weekly"

	// ChallengeMilestone accumulates for the learner's lifetime.
	ChallengeMilestone ChallengeType = "milestone"
)

// RequirementKind is the closed set of activities a challenge can
// require. Evaluation branches exhaustively on this type so that adding
// a new kind forces every switch to be revisited.
type RequirementKind string

const (
	RequireCompleteLesson RequirementKind = "complete_lesson"
	RequireCompleteQuiz   RequirementKind = "complete_quiz"
	RequireCompleteCourse RequirementKind = "complete_course"
	RequireEarnXP         RequirementKind = "earn_xp"
	RequireLoginStreak    RequirementKind = "login_streak"
)

// ValidRequirementKind reports whether kind is one of the closed set.
func ValidRequirementKind(kind RequirementKind) bool {
	switch kind {
	case RequireCompleteLesson, RequireCompleteQuiz, RequireCompleteCourse,
		RequireEarnXP, RequireLoginStreak:
		return true
	default:
		return false
	}
}

// Challenge is a secondary objective distinct from linear course
// progression. Completing one awards XPReward exactly once per period.
type Challenge struct {
	ID               uuid.UUID       `json:"id"`
	Type             ChallengeType   `json:"type"`
	RequirementKind  RequirementKind `json:"requirement_kind"`
	RequirementValue int             `json:"requirement_value"`
	XPReward         int             `json:"xp_reward"`
	Title            string          `json:"title"`
	Description      string          `json:"description,omitempty"`
}

// Validate checks if the Challenge has valid data.
// Returns an error if any field fails validation.
func (c *Challenge) Validate() error {
	if c.ID == uuid.Nil {
		return ErrChallengeIDEmpty
	}

	switch c.Type {
	case ChallengeDaily, ChallengeWeekly, ChallengeMilestone:
	default:
		return ErrInvalidChallengeType
	}

	if !ValidRequirementKind(c.RequirementKind) {
		return ErrInvalidRequirementKind
	}

	if c.RequirementValue <= 0 {
		return ErrRequirementValueInvalid
	}

	if c.XPReward < 0 {
		return ErrNegativeXPReward
	}

	return nil
}

// PeriodKey returns the progress-row key for this challenge at the
// given instant: the UTC calendar day for daily challenges, the ISO
// week for weekly ones, and the empty string for milestones.
//
// All period arithmetic is done on UTC calendar days so that client and
// server disagreement over local midnight cannot split a period.
func (c *Challenge) PeriodKey(at time.Time) string {
	switch c.Type {
	case ChallengeDaily:
		return at.UTC().Format("2006-01-02")
	case ChallengeWeekly:
		year, week := at.UTC().ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	default:
		return ""
	}
}

// ChallengeProgress links a learner to a challenge within one period.
// Progress is monotonically non-decreasing within the period and
// Completed transitions false→true exactly once.
type ChallengeProgress struct {
	LearnerID   uuid.UUID  `json:"learner_id"`
	ChallengeID uuid.UUID  `json:"challenge_id"`
	PeriodKey   string     `json:"period_key"`
	Progress    int        `json:"progress"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewChallengeProgress creates a zeroed progress row for a learner,
// challenge, and period.
func NewChallengeProgress(learnerID, challengeID uuid.UUID, periodKey string) *ChallengeProgress {
	now := time.Now().UTC()
	return &ChallengeProgress{
		LearnerID:   learnerID,
		ChallengeID: challengeID,
		PeriodKey:   periodKey,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Advance moves progress to newProgress and flips Completed when the
// target is reached. Returns true exactly once, on the attempt that
// crosses the target, so the caller can issue the reward on that
// transition and only that transition. Advancing an already-completed
// row is a no-op.
func (p *ChallengeProgress) Advance(newProgress, target int, now time.Time) (completedNow bool, err error) {
	if p.Completed {
		return false, nil
	}

	if newProgress < p.Progress {
		return false, ErrProgressDecreased
	}

	p.Progress = newProgress
	p.UpdatedAt = now

	if p.Progress >= target {
		p.Completed = true
		completedAt := now
		p.CompletedAt = &completedAt
		return true, nil
	}

	return false, nil
}
