package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Unit-specific validation errors
var (
	// ErrUnitIDEmpty is returned when a unit ID is empty or nil.
	ErrUnitIDEmpty = errors.New("unit ID cannot be empty")

	// ErrUnitParentEmpty is returned when a unit's parent ID is empty or nil.
	ErrUnitParentEmpty = errors.New("unit parent ID cannot be empty")

	// ErrNegativePosition is returned when a unit's position in its
	// parent sequence is negative.
	ErrNegativePosition = errors.New("unit position cannot be negative")

	// ErrNegativeXPReward is returned when a unit's XP reward is negative.
	ErrNegativeXPReward = errors.New("xp reward cannot be negative")

	// ErrQuestionOptionsEmpty is returned when a quiz question has no options.
	ErrQuestionOptionsEmpty = errors.New("quiz question must have options")

	// ErrCorrectIndexOutOfRange is returned when a question's correct
	// answer index does not point at one of its options.
	ErrCorrectIndexOutOfRange = errors.New("correct answer index out of range")
)

// UnitKind identifies what kind of completable item a unit is.
type UnitKind string

// Possible unit kinds. Lessons and course days are leaves inside an
// ordered sequence; a course is the parent whose completion requires
// every child to be completed.
const (
	UnitKindLesson    UnitKind = "lesson"
	UnitKindCourseDay UnitKind = "course_day"
	UnitKindCourse    UnitKind = "course"
)

// PassThreshold selects which scoring rule a unit's quiz is graded
// against. The threshold is a property of the unit, not a global
// constant: standard lesson quizzes and the final exam require a
// perfect score, while checkpoint quizzes in the day-based program
// accept a lenient percentage.
type PassThreshold string

const (
	// PassThresholdStrict requires a score of exactly 100%.
	PassThresholdStrict PassThreshold = "strict"

	// PassThresholdLenient requires a score at or above the configured
	// lenient percentage (66 by default).
	PassThresholdLenient PassThreshold = "lenient"
)

// QuizQuestion is a single multiple-choice question on a unit.
// CorrectIndex is zero-based into Options.
type QuizQuestion struct {
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

// Validate checks if the QuizQuestion has valid data.
func (q *QuizQuestion) Validate() error {
	if len(q.Options) == 0 {
		return ErrQuestionOptionsEmpty
	}

	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ErrCorrectIndexOutOfRange
	}

	return nil
}

// Unit is an individually completable, orderable item: a lesson, a day
// in the day-based program, or a whole course. Units form a strictly
// ordered chain within their parent; Position is unique per parent.
type Unit struct {
	ID        uuid.UUID      `json:"id"`
	ParentID  uuid.UUID      `json:"parent_id"`
	Kind      UnitKind       `json:"kind"`
	Title     string         `json:"title"`
	Position  int            `json:"position"`
	XPReward  int            `json:"xp_reward"`
	Threshold PassThreshold  `json:"threshold"`
	Questions []QuizQuestion `json:"questions,omitempty"`
}

// HasQuiz reports whether the unit carries quiz questions. Units
// without a quiz are completed directly; units with a quiz are
// completed only through a passing submission.
func (u *Unit) HasQuiz() bool {
	return len(u.Questions) > 0
}

// Validate checks if the Unit has valid data.
// Returns an error if any field fails validation.
func (u *Unit) Validate() error {
	if u.ID == uuid.Nil {
		return ErrUnitIDEmpty
	}

	if u.ParentID == uuid.Nil && u.Kind != UnitKindCourse {
		return ErrUnitParentEmpty
	}

	switch u.Kind {
	case UnitKindLesson, UnitKindCourseDay, UnitKindCourse:
	default:
		return ErrInvalidUnitKind
	}

	if u.Position < 0 {
		return ErrNegativePosition
	}

	if u.XPReward < 0 {
		return ErrNegativeXPReward
	}

	switch u.Threshold {
	case PassThresholdStrict, PassThresholdLenient:
	default:
		return ErrValidation
	}

	for i := range u.Questions {
		if err := u.Questions[i].Validate(); err != nil {
			return err
		}
	}

	return nil
}
