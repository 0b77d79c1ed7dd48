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

// PostgresChallengeStore implements the store.ChallengeStore interface
// using a PostgreSQL database as the storage backend. The challenge
// catalog is seeded by migrations and read-only at runtime.
type PostgresChallengeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresChallengeStore creates a new PostgreSQL implementation of the ChallengeStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresChallengeStore(db store.DBTX, logger *slog.Logger) *PostgresChallengeStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresChallengeStore{
		db:     db,
		logger: logger.With(slog.String("component", "challenge_store")),
	}
}

// Ensure PostgresChallengeStore implements store.ChallengeStore interface
var _ store.ChallengeStore = (*PostgresChallengeStore)(nil)

const challengeSelectColumns = `
	SELECT id, type, requirement_kind, requirement_value, xp_reward, title, description
	FROM challenges`

// GetByID implements store.ChallengeStore.GetByID
// Returns store.ErrChallengeNotFound if the challenge does not exist.
func (s *PostgresChallengeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Challenge, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := challengeSelectColumns + ` WHERE id = $1`

	var ch domain.Challenge
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&ch.ID,
		&ch.Type,
		&ch.RequirementKind,
		&ch.RequirementValue,
		&ch.XPReward,
		&ch.Title,
		&ch.Description,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrChallengeNotFound
		}
		log.Error("failed to get challenge",
			slog.String("error", err.Error()),
			slog.String("challenge_id", id.String()))
		return nil, MapError(err)
	}

	return &ch, nil
}

// ListAll implements store.ChallengeStore.ListAll
func (s *PostgresChallengeStore) ListAll(ctx context.Context) ([]*domain.Challenge, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := challengeSelectColumns + ` ORDER BY type, title`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query challenges", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	challenges := []*domain.Challenge{}
	for rows.Next() {
		var ch domain.Challenge
		err := rows.Scan(
			&ch.ID,
			&ch.Type,
			&ch.RequirementKind,
			&ch.RequirementValue,
			&ch.XPReward,
			&ch.Title,
			&ch.Description,
		)
		if err != nil {
			log.Error("failed to scan challenge row", slog.String("error", err.Error()))
			return nil, err
		}
		challenges = append(challenges, &ch)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return challenges, nil
}

// WithTx implements store.ChallengeStore.WithTx
func (s *PostgresChallengeStore) WithTx(tx *sql.Tx) store.ChallengeStore {
	return &PostgresChallengeStore{
		db:     tx,
		logger: s.logger,
	}
}

// PostgresChallengeProgressStore implements the store.ChallengeProgressStore
// interface using a PostgreSQL database as the storage backend.
type PostgresChallengeProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresChallengeProgressStore creates a new PostgreSQL implementation
// of the ChallengeProgressStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresChallengeProgressStore(
	db store.DBTX,
	logger *slog.Logger,
) *PostgresChallengeProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresChallengeProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "challenge_progress_store")),
	}
}

// Ensure PostgresChallengeProgressStore implements store.ChallengeProgressStore interface
var _ store.ChallengeProgressStore = (*PostgresChallengeProgressStore)(nil)

const challengeProgressSelectColumns = `
	SELECT learner_id, challenge_id, period_key, progress, completed, completed_at,
	       created_at, updated_at
	FROM challenge_progress`

// Get implements store.ChallengeProgressStore.Get
// Returns store.ErrChallengeProgressNotFound if no row exists for the period.
func (s *PostgresChallengeProgressStore) Get(
	ctx context.Context,
	learnerID, challengeID uuid.UUID,
	periodKey string,
) (*domain.ChallengeProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := challengeProgressSelectColumns +
		` WHERE learner_id = $1 AND challenge_id = $2 AND period_key = $3`

	var progress domain.ChallengeProgress
	err := s.db.QueryRowContext(ctx, query, learnerID, challengeID, periodKey).Scan(
		&progress.LearnerID,
		&progress.ChallengeID,
		&progress.PeriodKey,
		&progress.Progress,
		&progress.Completed,
		&progress.CompletedAt,
		&progress.CreatedAt,
		&progress.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrChallengeProgressNotFound
		}
		log.Error("failed to get challenge progress",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()),
			slog.String("challenge_id", challengeID.String()))
		return nil, MapError(err)
	}

	return &progress, nil
}

// ListByLearner implements store.ChallengeProgressStore.ListByLearner
func (s *PostgresChallengeProgressStore) ListByLearner(
	ctx context.Context,
	learnerID uuid.UUID,
	periodKeys []string,
) ([]*domain.ChallengeProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := challengeProgressSelectColumns +
		` WHERE learner_id = $1 AND period_key = ANY($2)`

	rows, err := s.db.QueryContext(ctx, query, learnerID, periodKeys)
	if err != nil {
		log.Error("failed to query challenge progress",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	results := []*domain.ChallengeProgress{}
	for rows.Next() {
		var progress domain.ChallengeProgress
		err := rows.Scan(
			&progress.LearnerID,
			&progress.ChallengeID,
			&progress.PeriodKey,
			&progress.Progress,
			&progress.Completed,
			&progress.CompletedAt,
			&progress.CreatedAt,
			&progress.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan challenge progress row",
				slog.String("error", err.Error()))
			return nil, err
		}
		results = append(results, &progress)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return results, nil
}

// Upsert implements store.ChallengeProgressStore.Upsert
func (s *PostgresChallengeProgressStore) Upsert(
	ctx context.Context,
	progress *domain.ChallengeProgress,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO challenge_progress
			(learner_id, challenge_id, period_key, progress, completed, completed_at,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (learner_id, challenge_id, period_key) DO UPDATE
		SET progress = EXCLUDED.progress,
		    completed = EXCLUDED.completed,
		    completed_at = EXCLUDED.completed_at,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		progress.LearnerID,
		progress.ChallengeID,
		progress.PeriodKey,
		progress.Progress,
		progress.Completed,
		progress.CompletedAt,
		progress.CreatedAt,
		progress.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to upsert challenge progress",
			slog.String("error", err.Error()),
			slog.String("learner_id", progress.LearnerID.String()),
			slog.String("challenge_id", progress.ChallengeID.String()))
		return MapError(err)
	}

	return nil
}

// WithTx implements store.ChallengeProgressStore.WithTx
func (s *PostgresChallengeProgressStore) WithTx(tx *sql.Tx) store.ChallengeProgressStore {
	return &PostgresChallengeProgressStore{
		db:     tx,
		logger: s.logger,
	}
}
