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

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the ProgressStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

const progressSelectColumns = `
	SELECT learner_id, unit_id, completed, completed_at, quiz_score, attempts,
	       created_at, updated_at
	FROM progress_records`

// Get implements store.ProgressStore.Get
// Returns store.ErrProgressNotFound if no attempt has been recorded yet.
func (s *PostgresProgressStore) Get(
	ctx context.Context,
	learnerID, unitID uuid.UUID,
) (*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := progressSelectColumns + ` WHERE learner_id = $1 AND unit_id = $2`

	var record domain.ProgressRecord
	err := s.db.QueryRowContext(ctx, query, learnerID, unitID).Scan(
		&record.LearnerID,
		&record.UnitID,
		&record.Completed,
		&record.CompletedAt,
		&record.QuizScore,
		&record.Attempts,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		log.Error("failed to get progress record",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()),
			slog.String("unit_id", unitID.String()))
		return nil, MapError(err)
	}

	return &record, nil
}

// ListByLearner implements store.ProgressStore.ListByLearner
func (s *PostgresProgressStore) ListByLearner(
	ctx context.Context,
	learnerID uuid.UUID,
) ([]*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := progressSelectColumns + ` WHERE learner_id = $1 ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		log.Error("failed to query progress records",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	records := []*domain.ProgressRecord{}
	for rows.Next() {
		var record domain.ProgressRecord
		err := rows.Scan(
			&record.LearnerID,
			&record.UnitID,
			&record.Completed,
			&record.CompletedAt,
			&record.QuizScore,
			&record.Attempts,
			&record.CreatedAt,
			&record.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan progress row", slog.String("error", err.Error()))
			return nil, err
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return records, nil
}

// Upsert implements store.ProgressStore.Upsert
func (s *PostgresProgressStore) Upsert(ctx context.Context, record *domain.ProgressRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		log.Warn("progress validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("learner_id", record.LearnerID.String()),
			slog.String("unit_id", record.UnitID.String()))
		return err
	}

	query := `
		INSERT INTO progress_records
			(learner_id, unit_id, completed, completed_at, quiz_score, attempts,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (learner_id, unit_id) DO UPDATE
		SET completed = EXCLUDED.completed,
		    completed_at = EXCLUDED.completed_at,
		    quiz_score = EXCLUDED.quiz_score,
		    attempts = EXCLUDED.attempts,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		record.LearnerID,
		record.UnitID,
		record.Completed,
		record.CompletedAt,
		record.QuizScore,
		record.Attempts,
		record.CreatedAt,
		record.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to upsert progress record",
			slog.String("error", err.Error()),
			slog.String("learner_id", record.LearnerID.String()),
			slog.String("unit_id", record.UnitID.String()))
		return MapError(err)
	}

	return nil
}

// WithTx implements store.ProgressStore.WithTx
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{
		db:     tx,
		logger: s.logger,
	}
}
