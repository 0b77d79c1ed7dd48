package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dchandra05/sprout-api/internal/domain"
)

// ProgressStore defines the interface for unit progress persistence.
type ProgressStore interface {
	// Get retrieves the learner's progress record for a unit.
	// Returns ErrProgressNotFound if no attempt has been recorded yet.
	Get(ctx context.Context, learnerID, unitID uuid.UUID) (*domain.ProgressRecord, error)

	// ListByLearner retrieves all of a learner's progress records.
	// Returns an empty slice for a learner with no recorded attempts.
	ListByLearner(ctx context.Context, learnerID uuid.UUID) ([]*domain.ProgressRecord, error)

	// Upsert saves the progress record, inserting on first attempt and
	// updating in place afterwards. Records are never deleted.
	// Returns validation errors from the domain ProgressRecord if data is invalid.
	Upsert(ctx context.Context, record *domain.ProgressRecord) error

	// WithTx returns a new ProgressStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProgressStore
}
