package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dchandra05/sprout-api/internal/domain"
)

// ChallengeStore defines the interface for the challenge catalog.
// Challenges are seeded by migrations and read-only at runtime.
type ChallengeStore interface {
	// GetByID retrieves a single challenge definition.
	// Returns ErrChallengeNotFound if the challenge does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Challenge, error)

	// ListAll retrieves every defined challenge.
	ListAll(ctx context.Context) ([]*domain.Challenge, error)

	// WithTx returns a new ChallengeStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ChallengeStore
}

// ChallengeProgressStore defines the interface for per-learner,
// per-period challenge progress rows.
type ChallengeProgressStore interface {
	// Get retrieves the learner's progress row for a challenge in the
	// given period.
	// Returns ErrChallengeProgressNotFound if no row exists yet.
	Get(
		ctx context.Context,
		learnerID, challengeID uuid.UUID,
		periodKey string,
	) (*domain.ChallengeProgress, error)

	// ListByLearner retrieves the learner's progress rows for the given
	// period keys. Milestone rows use the empty period key, so include
	// "" in periodKeys to fetch them alongside the current day and week.
	ListByLearner(
		ctx context.Context,
		learnerID uuid.UUID,
		periodKeys []string,
	) ([]*domain.ChallengeProgress, error)

	// Upsert saves the progress row, keyed by (learner, challenge,
	// period). Rows are never deleted; expired periods simply stop being
	// read.
	Upsert(ctx context.Context, progress *domain.ChallengeProgress) error

	// WithTx returns a new ChallengeProgressStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ChallengeProgressStore
}
