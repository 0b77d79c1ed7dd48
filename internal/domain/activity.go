package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityKind labels what kind of qualifying action produced an
// activity record.
type ActivityKind string

const (
	ActivityLogin          ActivityKind = "login"
	ActivityLessonComplete ActivityKind = "lesson_complete"
	ActivityQuizPassed     ActivityKind = "quiz_passed"
	ActivityCourseComplete ActivityKind = "course_complete"
	ActivityBudgetExercise ActivityKind = "budget_exercise"
)

// ActivityRecord marks one qualifying action on one UTC calendar day.
// The store keeps at most one row per (learner, day, kind), so
// re-recording the same action on the same day is idempotent. Streaks
// are derived from the distinct days in this log.
type ActivityRecord struct {
	LearnerID uuid.UUID    `json:"learner_id"`
	Day       time.Time    `json:"day"` // truncated to a UTC calendar day
	Kind      ActivityKind `json:"kind"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewActivityRecord creates an activity record for the UTC calendar day
// containing at.
func NewActivityRecord(learnerID uuid.UUID, kind ActivityKind, at time.Time) *ActivityRecord {
	return &ActivityRecord{
		LearnerID: learnerID,
		Day:       CalendarDay(at),
		Kind:      kind,
		CreatedAt: at.UTC(),
	}
}

// CalendarDay truncates an instant to the UTC calendar day containing
// it. Every piece of day-granularity arithmetic in the engine (streaks,
// daily challenge periods) goes through this function so the timezone
// policy lives in exactly one place.
func CalendarDay(at time.Time) time.Time {
	utc := at.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}
