package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dchandra05/sprout-api/internal/domain"
)

// GoalStore defines the interface for savings goal persistence.
type GoalStore interface {
	// Create saves a new savings goal.
	// Returns validation errors from the domain SavingsGoal if data is invalid.
	Create(ctx context.Context, goal *domain.SavingsGoal) error

	// GetByID retrieves a goal by its unique ID.
	// Returns ErrGoalNotFound if the goal does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SavingsGoal, error)

	// ListByLearner retrieves all of a learner's goals, newest first.
	ListByLearner(ctx context.Context, learnerID uuid.UUID) ([]*domain.SavingsGoal, error)

	// Update persists the goal's current amount and completion state.
	// Returns ErrGoalNotFound if the goal does not exist.
	Update(ctx context.Context, goal *domain.SavingsGoal) error

	// WithTx returns a new GoalStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) GoalStore
}
