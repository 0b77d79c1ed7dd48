package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Progress-specific validation errors
var (
	// ErrProgressLearnerEmpty is returned when a progress record's
	// learner ID is empty or nil.
	ErrProgressLearnerEmpty = errors.New("progress record learner ID cannot be empty")

	// ErrProgressUnitEmpty is returned when a progress record's unit ID
	// is empty or nil.
	ErrProgressUnitEmpty = errors.New("progress record unit ID cannot be empty")

	// ErrScoreOutOfRange is returned when a quiz score falls outside 0-100.
	ErrScoreOutOfRange = errors.New("quiz score must be between 0 and 100")

	// ErrCompletedWithoutTimestamp is returned when a record is marked
	// completed but carries no completion timestamp.
	ErrCompletedWithoutTimestamp = errors.New("completed record must have a completion timestamp")
)

// ProgressRecord is the persisted fact that a learner attempted or
// completed a specific unit. Created lazily on the first attempt,
// updated in place on later attempts, never deleted.
//
// Invariant: Completed == true implies QuizScore met the unit's pass
// threshold at the time CompletedAt was set. CompletedAt is set once
// and never changes on later attempts.
type ProgressRecord struct {
	LearnerID   uuid.UUID  `json:"learner_id"`
	UnitID      uuid.UUID  `json:"unit_id"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	QuizScore   *int       `json:"quiz_score,omitempty"`
	Attempts    int        `json:"attempts"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewProgressRecord creates an empty progress record for a learner and
// unit. The record starts incomplete with no score.
func NewProgressRecord(learnerID, unitID uuid.UUID) (*ProgressRecord, error) {
	now := time.Now().UTC()
	record := &ProgressRecord{
		LearnerID: learnerID,
		UnitID:    unitID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// RecordAttempt updates the record with the outcome of one quiz
// attempt. The score always overwrites the stored score (the latest
// attempt is what the learner sees); completion flips at most once and
// CompletedAt is preserved across later attempts.
func (r *ProgressRecord) RecordAttempt(score int, passed bool, now time.Time) error {
	if score < 0 || score > 100 {
		return ErrScoreOutOfRange
	}

	r.Attempts++
	r.QuizScore = &score
	if passed && !r.Completed {
		r.Completed = true
		completedAt := now
		r.CompletedAt = &completedAt
	}
	r.UpdatedAt = now

	return nil
}

// MarkCompleted completes a unit that has no quiz. A no-op when the
// record is already completed, preserving the original timestamp.
func (r *ProgressRecord) MarkCompleted(now time.Time) {
	if r.Completed {
		return
	}
	r.Completed = true
	completedAt := now
	r.CompletedAt = &completedAt
	r.UpdatedAt = now
}

// Validate checks if the ProgressRecord has valid data.
// Returns an error if any field fails validation.
func (r *ProgressRecord) Validate() error {
	if r.LearnerID == uuid.Nil {
		return ErrProgressLearnerEmpty
	}

	if r.UnitID == uuid.Nil {
		return ErrProgressUnitEmpty
	}

	if r.QuizScore != nil && (*r.QuizScore < 0 || *r.QuizScore > 100) {
		return ErrScoreOutOfRange
	}

	if r.Completed && r.CompletedAt == nil {
		return ErrCompletedWithoutTimestamp
	}

	return nil
}
