package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dchandra05/sprout-api/internal/domain"
)

// LearnerStore defines the interface for learner profile persistence.
type LearnerStore interface {
	// Create saves a new learner profile to the store.
	// The profile must already carry a hashed password.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain LearnerProfile if data is invalid.
	Create(ctx context.Context, profile *domain.LearnerProfile) error

	// GetByID retrieves a learner profile by its unique ID.
	// Returns ErrLearnerNotFound if the learner does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LearnerProfile, error)

	// GetByEmail retrieves a learner profile by email address.
	// Returns ErrLearnerNotFound if the learner does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.LearnerProfile, error)

	// Update persists the profile's gamification aggregates (XP, level,
	// streaks, completion counters). Identity fields are never changed
	// through this method.
	// Returns ErrLearnerNotFound if the learner does not exist.
	Update(ctx context.Context, profile *domain.LearnerProfile) error

	// WithTx returns a new LearnerStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) LearnerStore
}
