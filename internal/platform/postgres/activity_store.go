package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dchandra05/sprout-api/internal/domain"
	"github.com/dchandra05/sprout-api/internal/platform/logger"
	"github.com/dchandra05/sprout-api/internal/store"
)

// PostgresActivityStore implements the store.ActivityStore interface
// using a PostgreSQL database as the storage backend.
type PostgresActivityStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresActivityStore creates a new PostgreSQL implementation of the ActivityStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresActivityStore(db store.DBTX, logger *slog.Logger) *PostgresActivityStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresActivityStore{
		db:     db,
		logger: logger.With(slog.String("component", "activity_store")),
	}
}

// Ensure PostgresActivityStore implements store.ActivityStore interface
var _ store.ActivityStore = (*PostgresActivityStore)(nil)

// Record implements store.ActivityStore.Record
// The unique index on (learner_id, day, kind) makes re-recording the
// same action on the same day a silent no-op.
func (s *PostgresActivityStore) Record(ctx context.Context, record *domain.ActivityRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO activity_records (learner_id, day, kind, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (learner_id, day, kind) DO NOTHING
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		record.LearnerID,
		record.Day,
		record.Kind,
		record.CreatedAt,
	)

	if err != nil {
		log.Error("failed to record activity",
			slog.String("error", err.Error()),
			slog.String("learner_id", record.LearnerID.String()),
			slog.String("kind", string(record.Kind)))
		return MapError(err)
	}

	return nil
}

// ListActiveDays implements store.ActivityStore.ListActiveDays
func (s *PostgresActivityStore) ListActiveDays(
	ctx context.Context,
	learnerID uuid.UUID,
) ([]time.Time, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT DISTINCT day
		FROM activity_records
		WHERE learner_id = $1
		ORDER BY day ASC
	`

	rows, err := s.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		log.Error("failed to query active days",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	days := []time.Time{}
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			log.Error("failed to scan day row", slog.String("error", err.Error()))
			return nil, err
		}
		days = append(days, day.UTC())
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return days, nil
}

// WithTx implements store.ActivityStore.WithTx
func (s *PostgresActivityStore) WithTx(tx *sql.Tx) store.ActivityStore {
	return &PostgresActivityStore{
		db:     tx,
		logger: s.logger,
	}
}
