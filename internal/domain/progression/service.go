// Package progression implements the pure decision rules of the
// learning engine: quiz grading, sequence gating, XP and level
// arithmetic, streak derivation, and challenge progress evaluation.
//
// Nothing in this package performs I/O. Services call into it with
// current state and persist whatever it decides, which keeps every rule
// unit-testable and every verdict reproducible from its inputs.
package progression

import (
	"time"

	"github.com/google/uuid"

	"github.com/dchandra05/sprout-api/internal/domain"
)

// Service exposes the progression rules behind an interface so callers
// can substitute tuned parameters (or a fake) without touching the
// arithmetic.
type Service interface {
	// GradeQuiz grades answers against a unit's questions. Returns
	// ErrNoQuestions for an empty question list and
	// ErrIncompleteAnswers when any question is unanswered.
	GradeQuiz(questions []domain.QuizQuestion, answers map[int]int) (*QuizResult, error)

	// Passes reports whether a graded result clears the unit's
	// threshold.
	Passes(result *QuizResult, threshold domain.PassThreshold) bool

	// GateStatuses decides locked/available/completed for every unit
	// in an ordered sequence.
	GateStatuses(units []domain.Unit, records map[uuid.UUID]*domain.ProgressRecord) []UnitStatus

	// CourseCompleted reports whether all units in the sequence are
	// completed.
	CourseCompleted(units []domain.Unit, records map[uuid.UUID]*domain.ProgressRecord) bool

	// Level converts an XP total into a level.
	Level(xp int) int

	// ApplyXP computes the level transition caused by adding delta XP.
	ApplyXP(oldXP, delta int) AwardResult

	// DeriveStreak computes current/longest streaks from the activity
	// log as of now.
	DeriveStreak(activeDays []time.Time, now time.Time) Streak

	// ApplyChallengeEvent maps an activity event onto a challenge's
	// progress counter.
	ApplyChallengeEvent(ch domain.Challenge, current int, event ActivityEvent) (int, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a progression service with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a progression service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{params: params}
}

func (s *defaultService) GradeQuiz(
	questions []domain.QuizQuestion,
	answers map[int]int,
) (*QuizResult, error) {
	return gradeQuiz(questions, answers)
}

func (s *defaultService) Passes(result *QuizResult, threshold domain.PassThreshold) bool {
	return passes(result, threshold, s.params)
}

func (s *defaultService) GateStatuses(
	units []domain.Unit,
	records map[uuid.UUID]*domain.ProgressRecord,
) []UnitStatus {
	return gateStatuses(units, records)
}

func (s *defaultService) CourseCompleted(
	units []domain.Unit,
	records map[uuid.UUID]*domain.ProgressRecord,
) bool {
	return courseCompleted(units, records)
}

func (s *defaultService) Level(xp int) int {
	return level(xp, s.params.XPPerLevel)
}

func (s *defaultService) ApplyXP(oldXP, delta int) AwardResult {
	return applyXP(oldXP, delta, s.params)
}

func (s *defaultService) DeriveStreak(activeDays []time.Time, now time.Time) Streak {
	return deriveStreak(activeDays, now)
}

func (s *defaultService) ApplyChallengeEvent(
	ch domain.Challenge,
	current int,
	event ActivityEvent,
) (int, error) {
	return nextProgress(ch, current, event)
}
