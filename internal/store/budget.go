package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dchandra05/sprout-api/internal/domain/budget"
)

// BudgetStore defines the interface for per-learner budget scenario
// state: the saved table of cell values and the once-only confirmation
// that the learner banked the scenario's reward.
type BudgetStore interface {
	// GetTable retrieves the learner's saved table for a scenario.
	// Returns ErrBudgetTableNotFound if the learner has never edited
	// this scenario; callers seed a fresh table from the scenario
	// baseline in that case.
	GetTable(ctx context.Context, learnerID uuid.UUID, kind budget.ScenarioKind) (*budget.Table, error)

	// SaveTable upserts the learner's table for a scenario, replacing
	// all twelve months of cell values.
	SaveTable(
		ctx context.Context,
		learnerID uuid.UUID,
		kind budget.ScenarioKind,
		table *budget.Table,
	) error

	// Confirm records that the learner completed the scenario's
	// challenge. At most one confirmation exists per (learner,
	// scenario); applied is false when it was already recorded, so the
	// reward is only issued on the first confirmation.
	Confirm(
		ctx context.Context,
		learnerID uuid.UUID,
		kind budget.ScenarioKind,
	) (applied bool, err error)

	// IsConfirmed reports whether the learner has already confirmed the
	// scenario.
	IsConfirmed(ctx context.Context, learnerID uuid.UUID, kind budget.ScenarioKind) (bool, error)

	// WithTx returns a new BudgetStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) BudgetStore
}
