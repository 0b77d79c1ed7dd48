package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dchandra05/sprout-api/internal/domain"
	"github.com/dchandra05/sprout-api/internal/events"
	"github.com/dchandra05/sprout-api/internal/platform/logger"
	"github.com/dchandra05/sprout-api/internal/store"
)

// ContributionResult reports the goal state after a contribution and
// whether this contribution was the one that completed it.
type ContributionResult struct {
	Goal         *domain.SavingsGoal `json:"goal"`
	CompletedNow bool                `json:"completed_now"`
}

// GoalService orchestrates savings goal management. Goals are a
// self-tracking tool; they carry no XP and do not touch the ledger.
type GoalService interface {
	// Create saves a new savings goal for the learner.
	Create(ctx context.Context, learnerID uuid.UUID, name string, targetAmount float64) (*domain.SavingsGoal, error)

	// List retrieves the learner's goals, newest first.
	List(ctx context.Context, learnerID uuid.UUID) ([]*domain.SavingsGoal, error)

	// Contribute adds an amount to a goal the learner owns. Returns
	// ErrGoalNotOwned when the goal belongs to someone else and
	// domain.ErrGoalContributionInvalid for a non-positive amount.
	Contribute(ctx context.Context, learnerID, goalID uuid.UUID, amount float64) (*ContributionResult, error)
}

// goalServiceImpl implements the GoalService interface.
type goalServiceImpl struct {
	db      *sql.DB
	goals   store.GoalStore
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewGoalService creates a new GoalService.
// It returns an error if any of the required dependencies are nil.
func NewGoalService(
	db *sql.DB,
	goals store.GoalStore,
	emitter events.EventEmitter,
	log *slog.Logger,
) (GoalService, error) {
	if db == nil {
		return nil, NewServiceError("new_goal_service", "db cannot be nil", domain.ErrValidation)
	}
	if goals == nil {
		return nil, NewServiceError("new_goal_service", "goal store cannot be nil", domain.ErrValidation)
	}

	if log == nil {
		log = slog.Default()
	}

	return &goalServiceImpl{
		db:      db,
		goals:   goals,
		emitter: emitter,
		logger:  log.With(slog.String("component", "goal_service")),
	}, nil
}

// Create implements GoalService.Create
func (s *goalServiceImpl) Create(
	ctx context.Context,
	learnerID uuid.UUID,
	name string,
	targetAmount float64,
) (*domain.SavingsGoal, error) {
	goal, err := domain.NewSavingsGoal(learnerID, name, targetAmount)
	if err != nil {
		return nil, err
	}

	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("savings goal created",
		slog.String("learner_id", learnerID.String()),
		slog.String("goal_id", goal.ID.String()))
	return goal, nil
}

// List implements GoalService.List
func (s *goalServiceImpl) List(ctx context.Context, learnerID uuid.UUID) ([]*domain.SavingsGoal, error) {
	return s.goals.ListByLearner(ctx, learnerID)
}

// Contribute implements GoalService.Contribute
func (s *goalServiceImpl) Contribute(
	ctx context.Context,
	learnerID, goalID uuid.UUID,
	amount float64,
) (*ContributionResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := time.Now().UTC()

	var result *ContributionResult
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txGoals := s.goals.WithTx(tx)

		goal, err := txGoals.GetByID(ctx, goalID)
		if err != nil {
			return err
		}
		if goal.LearnerID != learnerID {
			return ErrGoalNotOwned
		}

		completedNow, err := goal.Contribute(amount, now)
		if err != nil {
			return err
		}

		if err := txGoals.Update(ctx, goal); err != nil {
			return err
		}

		result = &ContributionResult{Goal: goal, CompletedNow: completedNow}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.CompletedNow {
		log.Info("savings goal completed",
			slog.String("learner_id", learnerID.String()),
			slog.String("goal_id", goalID.String()))
		s.emitGoalCompleted(ctx, result.Goal)
	}

	return result, nil
}

// emitGoalCompleted publishes the completion milestone. Emission happens
// after commit; a handler failure cannot roll back the contribution.
func (s *goalServiceImpl) emitGoalCompleted(ctx context.Context, goal *domain.SavingsGoal) {
	if s.emitter == nil {
		return
	}

	event, err := events.NewProgressionEvent(events.EventGoalCompleted, goal.LearnerID, map[string]any{
		"goal_id": goal.ID,
		"name":    goal.Name,
	})
	if err != nil {
		s.logger.Error("failed to build goal completion event",
			slog.String("error", err.Error()))
		return
	}

	_ = s.emitter.EmitEvent(ctx, event)
}
