package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dchandra05/sprout-api/internal/domain"
	"github.com/dchandra05/sprout-api/internal/platform/logger"
	"github.com/dchandra05/sprout-api/internal/store"
)

// PostgresGoalStore implements the store.GoalStore interface
// using a PostgreSQL database as the storage backend.
type PostgresGoalStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGoalStore creates a new PostgreSQL implementation of the GoalStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresGoalStore(db store.DBTX, logger *slog.Logger) *PostgresGoalStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGoalStore{
		db:     db,
		logger: logger.With(slog.String("component", "goal_store")),
	}
}

// Ensure PostgresGoalStore implements store.GoalStore interface
var _ store.GoalStore = (*PostgresGoalStore)(nil)

const goalSelectColumns = `
	SELECT id, learner_id, name, target_amount, current_amount, completed,
	       created_at, updated_at
	FROM savings_goals`

// Create implements store.GoalStore.Create
func (s *PostgresGoalStore) Create(ctx context.Context, goal *domain.SavingsGoal) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := goal.Validate(); err != nil {
		log.Warn("goal validation failed during create",
			slog.String("error", err.Error()),
			slog.String("goal_id", goal.ID.String()))
		return err
	}

	query := `
		INSERT INTO savings_goals
			(id, learner_id, name, target_amount, current_amount, completed,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		goal.ID,
		goal.LearnerID,
		goal.Name,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.Completed,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create goal",
			slog.String("error", err.Error()),
			slog.String("goal_id", goal.ID.String()))
		return MapError(err)
	}

	log.Info("goal created successfully",
		slog.String("goal_id", goal.ID.String()),
		slog.String("learner_id", goal.LearnerID.String()))
	return nil
}

// GetByID implements store.GoalStore.GetByID
// Returns store.ErrGoalNotFound if the goal does not exist.
func (s *PostgresGoalStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.SavingsGoal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := goalSelectColumns + ` WHERE id = $1`

	var goal domain.SavingsGoal
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&goal.ID,
		&goal.LearnerID,
		&goal.Name,
		&goal.TargetAmount,
		&goal.CurrentAmount,
		&goal.Completed,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrGoalNotFound
		}
		log.Error("failed to get goal",
			slog.String("error", err.Error()),
			slog.String("goal_id", id.String()))
		return nil, MapError(err)
	}

	return &goal, nil
}

// ListByLearner implements store.GoalStore.ListByLearner
func (s *PostgresGoalStore) ListByLearner(
	ctx context.Context,
	learnerID uuid.UUID,
) ([]*domain.SavingsGoal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := goalSelectColumns + ` WHERE learner_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		log.Error("failed to query goals",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	goals := []*domain.SavingsGoal{}
	for rows.Next() {
		var goal domain.SavingsGoal
		err := rows.Scan(
			&goal.ID,
			&goal.LearnerID,
			&goal.Name,
			&goal.TargetAmount,
			&goal.CurrentAmount,
			&goal.Completed,
			&goal.CreatedAt,
			&goal.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan goal row", slog.String("error", err.Error()))
			return nil, err
		}
		goals = append(goals, &goal)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return goals, nil
}

// Update implements store.GoalStore.Update
// Returns store.ErrGoalNotFound if the goal does not exist.
func (s *PostgresGoalStore) Update(ctx context.Context, goal *domain.SavingsGoal) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := goal.Validate(); err != nil {
		log.Warn("goal validation failed during update",
			slog.String("error", err.Error()),
			slog.String("goal_id", goal.ID.String()))
		return err
	}

	query := `
		UPDATE savings_goals
		SET current_amount = $1, completed = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		goal.CurrentAmount,
		goal.Completed,
		goal.UpdatedAt,
		goal.ID,
	)

	if err != nil {
		log.Error("failed to update goal",
			slog.String("error", err.Error()),
			slog.String("goal_id", goal.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "savings goal"); err != nil {
		log.Debug("goal not found for update",
			slog.String("goal_id", goal.ID.String()))
		return store.ErrGoalNotFound
	}

	return nil
}

// WithTx implements store.GoalStore.WithTx
func (s *PostgresGoalStore) WithTx(tx *sql.Tx) store.GoalStore {
	return &PostgresGoalStore{
		db:     tx,
		logger: s.logger,
	}
}
