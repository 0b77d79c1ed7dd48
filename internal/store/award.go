package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dchandra05/sprout-api/internal/domain"
)

// XPAwardStore defines the interface for the append-only XP ledger.
type XPAwardStore interface {
	// Insert appends an award to the ledger. The (learner, reason) pair
	// is unique; if the reason was already awarded the insert is a no-op
	// and applied is false. Callers must only adjust the learner's XP
	// aggregate when applied is true.
	Insert(ctx context.Context, award *domain.XPAward) (applied bool, err error)

	// ListByLearner retrieves the learner's awards, newest first.
	ListByLearner(ctx context.Context, learnerID uuid.UUID) ([]*domain.XPAward, error)

	// WithTx returns a new XPAwardStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) XPAwardStore
}
