package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dchandra05/sprout-api/internal/domain"
	"github.com/dchandra05/sprout-api/internal/platform/logger"
	"github.com/dchandra05/sprout-api/internal/store"
)

// PostgresXPAwardStore implements the store.XPAwardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresXPAwardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresXPAwardStore creates a new PostgreSQL implementation of the XPAwardStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresXPAwardStore(db store.DBTX, logger *slog.Logger) *PostgresXPAwardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresXPAwardStore{
		db:     db,
		logger: logger.With(slog.String("component", "xp_award_store")),
	}
}

// Ensure PostgresXPAwardStore implements store.XPAwardStore interface
var _ store.XPAwardStore = (*PostgresXPAwardStore)(nil)

// Insert implements store.XPAwardStore.Insert
// The unique index on (learner_id, reason) plus DO NOTHING makes the
// ledger the idempotency point for all XP grants: applied is true only
// when this call actually appended the row.
func (s *PostgresXPAwardStore) Insert(
	ctx context.Context,
	award *domain.XPAward,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := award.Validate(); err != nil {
		log.Warn("award validation failed during insert",
			slog.String("error", err.Error()),
			slog.String("learner_id", award.LearnerID.String()))
		return false, err
	}

	query := `
		INSERT INTO xp_awards (learner_id, reason, amount, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (learner_id, reason) DO NOTHING
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		award.LearnerID,
		award.Reason,
		award.Amount,
		award.CreatedAt,
	)

	if err != nil {
		log.Error("failed to insert xp award",
			slog.String("error", err.Error()),
			slog.String("learner_id", award.LearnerID.String()),
			slog.String("reason", award.Reason))
		return false, MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("learner_id", award.LearnerID.String()))
		return false, err
	}

	if rowsAffected == 0 {
		log.Debug("xp award already recorded",
			slog.String("learner_id", award.LearnerID.String()),
			slog.String("reason", award.Reason))
		return false, nil
	}

	return true, nil
}

// ListByLearner implements store.XPAwardStore.ListByLearner
func (s *PostgresXPAwardStore) ListByLearner(
	ctx context.Context,
	learnerID uuid.UUID,
) ([]*domain.XPAward, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT learner_id, reason, amount, created_at
		FROM xp_awards
		WHERE learner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		log.Error("failed to query xp awards",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	awards := []*domain.XPAward{}
	for rows.Next() {
		var award domain.XPAward
		err := rows.Scan(
			&award.LearnerID,
			&award.Reason,
			&award.Amount,
			&award.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan award row", slog.String("error", err.Error()))
			return nil, err
		}
		awards = append(awards, &award)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return awards, nil
}

// WithTx implements store.XPAwardStore.WithTx
func (s *PostgresXPAwardStore) WithTx(tx *sql.Tx) store.XPAwardStore {
	return &PostgresXPAwardStore{
		db:     tx,
		logger: s.logger,
	}
}
