package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/dchandra05/sprout-api/internal/domain"
)

// ActivityStore defines the interface for the daily activity log that
// streaks are derived from.
type ActivityStore interface {
	// Record saves an activity record. At most one row exists per
	// (learner, day, kind); recording the same action again on the same
	// day is a silent no-op.
	Record(ctx context.Context, record *domain.ActivityRecord) error

	// ListActiveDays retrieves the distinct UTC calendar days on which
	// the learner has any recorded activity, ordered ascending.
	ListActiveDays(ctx context.Context, learnerID uuid.UUID) ([]time.Time, error)

	// WithTx returns a new ActivityStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ActivityStore
}
