package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dchandra05/sprout-api/internal/domain/budget"
	"github.com/dchandra05/sprout-api/internal/platform/logger"
	"github.com/dchandra05/sprout-api/internal/store"
)

// PostgresBudgetStore implements the store.BudgetStore interface
// using a PostgreSQL database as the storage backend.
//
// The twelve months of cell values are stored as a single JSONB column
// per (learner, scenario) row. The table is small and always read and
// written whole, so normalizing cells into rows would buy nothing.
type PostgresBudgetStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBudgetStore creates a new PostgreSQL implementation of the BudgetStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresBudgetStore(db store.DBTX, logger *slog.Logger) *PostgresBudgetStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBudgetStore{
		db:     db,
		logger: logger.With(slog.String("component", "budget_store")),
	}
}

// Ensure PostgresBudgetStore implements store.BudgetStore interface
var _ store.BudgetStore = (*PostgresBudgetStore)(nil)

// GetTable implements store.BudgetStore.GetTable
// Returns store.ErrBudgetTableNotFound if the learner has never edited
// this scenario.
func (s *PostgresBudgetStore) GetTable(
	ctx context.Context,
	learnerID uuid.UUID,
	kind budget.ScenarioKind,
) (*budget.Table, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT months
		FROM budget_tables
		WHERE learner_id = $1 AND scenario_kind = $2
	`

	var monthsJSON []byte
	err := s.db.QueryRowContext(ctx, query, learnerID, kind).Scan(&monthsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrBudgetTableNotFound
		}
		log.Error("failed to get budget table",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()),
			slog.String("scenario", string(kind)))
		return nil, MapError(err)
	}

	var table budget.Table
	if err := json.Unmarshal(monthsJSON, &table.Months); err != nil {
		log.Error("failed to decode budget table",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()),
			slog.String("scenario", string(kind)))
		return nil, fmt.Errorf("invalid budget table payload: %w", err)
	}

	return &table, nil
}

// SaveTable implements store.BudgetStore.SaveTable
func (s *PostgresBudgetStore) SaveTable(
	ctx context.Context,
	learnerID uuid.UUID,
	kind budget.ScenarioKind,
	table *budget.Table,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	monthsJSON, err := json.Marshal(table.Months)
	if err != nil {
		return fmt.Errorf("failed to encode budget table: %w", err)
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO budget_tables (learner_id, scenario_kind, months, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (learner_id, scenario_kind) DO UPDATE
		SET months = EXCLUDED.months,
		    updated_at = EXCLUDED.updated_at
	`

	_, err = s.db.ExecContext(ctx, query, learnerID, kind, monthsJSON, now)
	if err != nil {
		log.Error("failed to save budget table",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()),
			slog.String("scenario", string(kind)))
		return MapError(err)
	}

	return nil
}

// Confirm implements store.BudgetStore.Confirm
// The unique constraint on (learner_id, scenario_kind) plus DO NOTHING
// makes the confirmation once-only: applied is true on the first call and
// false on every repeat.
func (s *PostgresBudgetStore) Confirm(
	ctx context.Context,
	learnerID uuid.UUID,
	kind budget.ScenarioKind,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO budget_confirmations (learner_id, scenario_kind, confirmed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (learner_id, scenario_kind) DO NOTHING
	`

	result, err := s.db.ExecContext(ctx, query, learnerID, kind, time.Now().UTC())
	if err != nil {
		log.Error("failed to confirm budget scenario",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()),
			slog.String("scenario", string(kind)))
		return false, MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return false, err
	}

	return rowsAffected > 0, nil
}

// IsConfirmed implements store.BudgetStore.IsConfirmed
func (s *PostgresBudgetStore) IsConfirmed(
	ctx context.Context,
	learnerID uuid.UUID,
	kind budget.ScenarioKind,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM budget_confirmations
			WHERE learner_id = $1 AND scenario_kind = $2
		)
	`

	var confirmed bool
	if err := s.db.QueryRowContext(ctx, query, learnerID, kind).Scan(&confirmed); err != nil {
		log.Error("failed to check budget confirmation",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()),
			slog.String("scenario", string(kind)))
		return false, MapError(err)
	}

	return confirmed, nil
}

// WithTx implements store.BudgetStore.WithTx
func (s *PostgresBudgetStore) WithTx(tx *sql.Tx) store.BudgetStore {
	return &PostgresBudgetStore{
		db:     tx,
		logger: s.logger,
	}
}
