package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dchandra05/sprout-api/internal/domain"
	"github.com/dchandra05/sprout-api/internal/domain/budget"
	"github.com/dchandra05/sprout-api/internal/events"
	"github.com/dchandra05/sprout-api/internal/platform/logger"
	"github.com/dchandra05/sprout-api/internal/store"
)

// budgetScenarioXPReward is the XP granted for confirming a scenario.
// All four scenarios pay the same; the reward is for finishing the
// exercise, not for which one it was.
const budgetScenarioXPReward = 150

// ScenarioView is everything the client needs to render a budget
// exercise: the scenario definition, the learner's current table, the
// verdict for that table, and whether the reward was already banked.
type ScenarioView struct {
	Scenario  budget.Scenario `json:"scenario"`
	Table     *budget.Table   `json:"table"`
	Verdict   budget.Verdict  `json:"verdict"`
	Confirmed bool            `json:"confirmed"`
}

// BudgetService orchestrates the budget scenario exercises: loading and
// editing the learner's table, validating it, and the once-only reward
// confirmation.
type BudgetService interface {
	// ListScenarios returns the defined scenarios without learner state.
	ListScenarios(ctx context.Context) []budget.Scenario

	// GetScenario returns the learner's view of a scenario, seeding a
	// fresh table from the baseline when the learner has never edited it.
	// Returns budget.ErrUnknownScenario for an undefined kind.
	GetScenario(ctx context.Context, learnerID uuid.UUID, kind budget.ScenarioKind) (*ScenarioView, error)

	// SetCell writes one cell of the learner's table and revalidates.
	// Negative values are coerced to zero by the table itself.
	SetCell(
		ctx context.Context,
		learnerID uuid.UUID,
		kind budget.ScenarioKind,
		monthIndex int,
		category budget.Category,
		value float64,
	) (*ScenarioView, error)

	// Confirm banks the scenario's reward. The table must currently
	// satisfy the challenge (ErrChallengeNotMet otherwise); confirming
	// an already-confirmed scenario is a no-op with no new XP.
	Confirm(ctx context.Context, learnerID uuid.UUID, kind budget.ScenarioKind) (*ScenarioView, error)
}

// budgetServiceImpl implements the BudgetService interface.
type budgetServiceImpl struct {
	db       *sql.DB
	budgets  store.BudgetStore
	activity store.ActivityStore
	rewards  *Rewarder
	logger   *slog.Logger
}

// NewBudgetService creates a new BudgetService.
// It returns an error if any of the required dependencies are nil.
func NewBudgetService(
	db *sql.DB,
	budgets store.BudgetStore,
	activity store.ActivityStore,
	rewards *Rewarder,
	log *slog.Logger,
) (BudgetService, error) {
	if db == nil {
		return nil, NewServiceError("new_budget_service", "db cannot be nil", domain.ErrValidation)
	}
	if budgets == nil || activity == nil || rewards == nil {
		return nil, NewServiceError("new_budget_service", "stores cannot be nil", domain.ErrValidation)
	}

	if log == nil {
		log = slog.Default()
	}

	return &budgetServiceImpl{
		db:       db,
		budgets:  budgets,
		activity: activity,
		rewards:  rewards,
		logger:   log.With(slog.String("component", "budget_service")),
	}, nil
}

// ListScenarios implements BudgetService.ListScenarios
func (s *budgetServiceImpl) ListScenarios(ctx context.Context) []budget.Scenario {
	return budget.DefinedScenarios()
}

// GetScenario implements BudgetService.GetScenario
func (s *budgetServiceImpl) GetScenario(
	ctx context.Context,
	learnerID uuid.UUID,
	kind budget.ScenarioKind,
) (*ScenarioView, error) {
	scenario, err := budget.ScenarioByKind(kind)
	if err != nil {
		return nil, err
	}

	table, err := s.loadOrSeedTable(ctx, s.budgets, learnerID, scenario)
	if err != nil {
		return nil, err
	}

	return s.buildView(ctx, s.budgets, learnerID, scenario, table)
}

// SetCell implements BudgetService.SetCell
func (s *budgetServiceImpl) SetCell(
	ctx context.Context,
	learnerID uuid.UUID,
	kind budget.ScenarioKind,
	monthIndex int,
	category budget.Category,
	value float64,
) (*ScenarioView, error) {
	scenario, err := budget.ScenarioByKind(kind)
	if err != nil {
		return nil, err
	}

	var view *ScenarioView
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txBudgets := s.budgets.WithTx(tx)

		table, err := s.loadOrSeedTable(ctx, txBudgets, learnerID, scenario)
		if err != nil {
			return err
		}

		if err := table.SetCell(monthIndex, category, value); err != nil {
			return err
		}

		if err := txBudgets.SaveTable(ctx, learnerID, kind, table); err != nil {
			return err
		}

		view, err = s.buildView(ctx, txBudgets, learnerID, scenario, table)
		return err
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

// Confirm implements BudgetService.Confirm
func (s *budgetServiceImpl) Confirm(
	ctx context.Context,
	learnerID uuid.UUID,
	kind budget.ScenarioKind,
) (*ScenarioView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := time.Now().UTC()

	scenario, err := budget.ScenarioByKind(kind)
	if err != nil {
		return nil, err
	}

	var view *ScenarioView
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txBudgets := s.budgets.WithTx(tx)
		txActivity := s.activity.WithTx(tx)
		txRewards := s.rewards.withTx(tx)

		// Validate the same state GetScenario shows: a never-edited
		// scenario is judged on its seeded baseline, which can already
		// satisfy some challenges.
		table, err := s.loadOrSeedTable(ctx, txBudgets, learnerID, scenario)
		if err != nil {
			return err
		}

		verdict, err := budget.Validate(scenario, table)
		if err != nil {
			return err
		}
		if !verdict.ChallengeMet {
			return ErrChallengeNotMet
		}

		applied, err := txBudgets.Confirm(ctx, learnerID, kind)
		if err != nil {
			return err
		}

		if applied {
			profile, err := txRewards.learners.GetByID(ctx, learnerID)
			if err != nil {
				return err
			}

			if _, _, err := txRewards.grantXP(
				ctx, profile, budgetAwardReason(kind), budgetScenarioXPReward,
			); err != nil {
				return err
			}

			if err := txActivity.Record(ctx, domain.NewActivityRecord(
				learnerID, domain.ActivityBudgetExercise, now,
			)); err != nil {
				return err
			}

			if err := txRewards.refreshStreak(ctx, txActivity, profile, now); err != nil {
				return err
			}

			txRewards.emit(ctx, events.EventBudgetChallengeCompleted, learnerID, map[string]any{
				"scenario": kind,
				"title":    scenario.Title,
			})

			log.Info("budget scenario confirmed",
				slog.String("learner_id", learnerID.String()),
				slog.String("scenario", string(kind)))
		}

		view = &ScenarioView{
			Scenario:  scenario,
			Table:     table,
			Verdict:   verdict,
			Confirmed: true,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

// loadOrSeedTable returns the learner's saved table or a fresh one
// built from the scenario baseline. Seeded tables are not persisted
// until the learner edits a cell.
func (s *budgetServiceImpl) loadOrSeedTable(
	ctx context.Context,
	budgets store.BudgetStore,
	learnerID uuid.UUID,
	scenario budget.Scenario,
) (*budget.Table, error) {
	table, err := budgets.GetTable(ctx, learnerID, scenario.Kind)
	if err != nil {
		if errors.Is(err, store.ErrBudgetTableNotFound) {
			return budget.NewTable(scenario.Baseline), nil
		}
		return nil, err
	}
	return table, nil
}

func (s *budgetServiceImpl) buildView(
	ctx context.Context,
	budgets store.BudgetStore,
	learnerID uuid.UUID,
	scenario budget.Scenario,
	table *budget.Table,
) (*ScenarioView, error) {
	verdict, err := budget.Validate(scenario, table)
	if err != nil {
		return nil, err
	}

	confirmed, err := budgets.IsConfirmed(ctx, learnerID, scenario.Kind)
	if err != nil {
		return nil, err
	}

	return &ScenarioView{
		Scenario:  scenario,
		Table:     table,
		Verdict:   verdict,
		Confirmed: confirmed,
	}, nil
}
