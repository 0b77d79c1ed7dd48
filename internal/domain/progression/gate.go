package progression

import (
	"github.com/google/uuid"

	"github.com/dchandra05/sprout-api/internal/domain"
)

// UnitStatus is the lock/available/completed decision for a unit within
// its ordered sequence.
type UnitStatus string

const (
	// UnitLocked means the unit cannot be attempted yet: some earlier
	// unit in the sequence is not completed.
	UnitLocked UnitStatus = "locked"

	// UnitAvailable means the unit may be attempted: it is first in the
	// sequence or its immediate predecessor is completed.
	UnitAvailable UnitStatus = "available"

	// UnitCompleted means a progress record exists with completed=true.
	UnitCompleted UnitStatus = "completed"
)

// gateStatuses decides the status of every unit in an ordered sequence.
// units must be sorted by position; records maps unit ID to the
// learner's progress record, with missing entries meaning the unit was
// never attempted.
//
// A gap in the chain locks everything after it: a never-attempted unit
// is not completed, so its successor is locked regardless of any
// records further along.
func gateStatuses(units []domain.Unit, records map[uuid.UUID]*domain.ProgressRecord) []UnitStatus {
	statuses := make([]UnitStatus, len(units))

	for i, unit := range units {
		if isCompleted(records, unit.ID) {
			statuses[i] = UnitCompleted
			continue
		}

		if i == 0 || isCompleted(records, units[i-1].ID) {
			statuses[i] = UnitAvailable
			continue
		}

		statuses[i] = UnitLocked
	}

	return statuses
}

// courseCompleted reports whether every unit in the sequence is
// completed. Completing only the last unit is not enough.
func courseCompleted(units []domain.Unit, records map[uuid.UUID]*domain.ProgressRecord) bool {
	if len(units) == 0 {
		return false
	}

	for _, unit := range units {
		if !isCompleted(records, unit.ID) {
			return false
		}
	}

	return true
}

func isCompleted(records map[uuid.UUID]*domain.ProgressRecord, unitID uuid.UUID) bool {
	record, ok := records[unitID]
	return ok && record.Completed
}
