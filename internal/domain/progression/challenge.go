package progression

import (
	"fmt"

	"github.com/dchandra05/sprout-api/internal/domain"
)

// ActivityEvent is one learner action, described in terms every
// challenge requirement can be measured against. A single action can
// carry several facets at once: passing a lesson quiz sets QuizPassed
// and LessonCompleted and carries the XP earned by it.
type ActivityEvent struct {
	LessonCompleted bool
	QuizPassed      bool
	CourseCompleted bool

	// XPEarned is the XP granted by this event, counted toward earn_xp
	// challenges in the event's period.
	XPEarned int

	// LoginStreak is the learner's current daily streak at the time of
	// the event, used by login_streak challenges.
	LoginStreak int
}

// nextProgress maps an activity event onto a challenge's progress
// counter. Counting kinds advance by one per qualifying event; earn_xp
// accumulates the XP within the period; login_streak tracks the highest
// streak seen in the period so progress never moves backwards.
//
// The switch is exhaustive over domain.RequirementKind: a new kind
// added to the closed set must be handled here or evaluation fails
// loudly instead of silently ignoring it.
func nextProgress(ch domain.Challenge, current int, event ActivityEvent) (int, error) {
	switch ch.RequirementKind {
	case domain.RequireCompleteLesson:
		if event.LessonCompleted {
			return current + 1, nil
		}
		return current, nil

	case domain.RequireCompleteQuiz:
		if event.QuizPassed {
			return current + 1, nil
		}
		return current, nil

	case domain.RequireCompleteCourse:
		if event.CourseCompleted {
			return current + 1, nil
		}
		return current, nil

	case domain.RequireEarnXP:
		if event.XPEarned > 0 {
			return current + event.XPEarned, nil
		}
		return current, nil

	case domain.RequireLoginStreak:
		if event.LoginStreak > current {
			return event.LoginStreak, nil
		}
		return current, nil

	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidRequirementKind, ch.RequirementKind)
	}
}
