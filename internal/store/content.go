package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dchandra05/sprout-api/internal/domain"
)

// ContentStore defines the interface for reading the learning catalog:
// courses and the ordered units beneath them. Content is seeded by
// migrations and treated as read-only at runtime.
type ContentStore interface {
	// GetUnit retrieves a single unit with its quiz questions.
	// Returns ErrUnitNotFound if the unit does not exist.
	GetUnit(ctx context.Context, id uuid.UUID) (*domain.Unit, error)

	// ListUnitsInOrder retrieves every unit under the given parent,
	// ordered by Position ascending. The ordering is what the
	// progression gate walks, so it must be stable.
	// Returns an empty slice when the parent has no units.
	ListUnitsInOrder(ctx context.Context, parentID uuid.UUID) ([]*domain.Unit, error)

	// ListCourses retrieves every course-kind unit, ordered by Position.
	ListCourses(ctx context.Context) ([]*domain.Unit, error)

	// WithTx returns a new ContentStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ContentStore
}
