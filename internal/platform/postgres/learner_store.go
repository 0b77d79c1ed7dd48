package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dchandra05/sprout-api/internal/domain"
	"github.com/dchandra05/sprout-api/internal/platform/logger"
	"github.com/dchandra05/sprout-api/internal/store"
)

// PostgresLearnerStore implements the store.LearnerStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLearnerStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLearnerStore creates a new PostgreSQL implementation of the LearnerStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresLearnerStore(db store.DBTX, logger *slog.Logger) *PostgresLearnerStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLearnerStore{
		db:     db,
		logger: logger.With(slog.String("component", "learner_store")),
	}
}

// Ensure PostgresLearnerStore implements store.LearnerStore interface
var _ store.LearnerStore = (*PostgresLearnerStore)(nil)

// Create implements store.LearnerStore.Create
// Returns store.ErrEmailExists if the email is already registered.
func (s *PostgresLearnerStore) Create(ctx context.Context, profile *domain.LearnerProfile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := profile.Validate(); err != nil {
		log.Warn("learner validation failed during create",
			slog.String("error", err.Error()),
			slog.String("learner_id", profile.ID.String()))
		return err
	}

	query := `
		INSERT INTO learner_profiles
			(id, email, hashed_password, xp, level, current_streak, longest_streak,
			 lessons_completed, courses_completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		profile.ID,
		profile.Email,
		profile.HashedPassword,
		profile.XP,
		profile.Level,
		profile.CurrentStreak,
		profile.LongestStreak,
		profile.LessonsCompleted,
		profile.CoursesCompleted,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate email during learner creation",
				slog.String("learner_id", profile.ID.String()))
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}

		log.Error("failed to create learner",
			slog.String("error", err.Error()),
			slog.String("learner_id", profile.ID.String()))
		return MapError(err)
	}

	log.Info("learner created successfully",
		slog.String("learner_id", profile.ID.String()))
	return nil
}

// GetByID implements store.LearnerStore.GetByID
// Returns store.ErrLearnerNotFound if the learner does not exist.
func (s *PostgresLearnerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LearnerProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := learnerSelectColumns + ` WHERE id = $1`

	profile, err := s.scanLearner(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("learner not found", slog.String("learner_id", id.String()))
			return nil, store.ErrLearnerNotFound
		}
		log.Error("failed to get learner by ID",
			slog.String("error", err.Error()),
			slog.String("learner_id", id.String()))
		return nil, MapError(err)
	}

	return profile, nil
}

// GetByEmail implements store.LearnerStore.GetByEmail
// Returns store.ErrLearnerNotFound if the learner does not exist.
func (s *PostgresLearnerStore) GetByEmail(ctx context.Context, email string) (*domain.LearnerProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := learnerSelectColumns + ` WHERE email = $1`

	profile, err := s.scanLearner(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("learner not found by email")
			return nil, store.ErrLearnerNotFound
		}
		log.Error("failed to get learner by email",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return profile, nil
}

// Update implements store.LearnerStore.Update
// Only the gamification aggregates are written; identity fields stay untouched.
// Returns store.ErrLearnerNotFound if the learner does not exist.
func (s *PostgresLearnerStore) Update(ctx context.Context, profile *domain.LearnerProfile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := profile.Validate(); err != nil {
		log.Warn("learner validation failed during update",
			slog.String("error", err.Error()),
			slog.String("learner_id", profile.ID.String()))
		return err
	}

	query := `
		UPDATE learner_profiles
		SET xp = $1, level = $2, current_streak = $3, longest_streak = $4,
		    lessons_completed = $5, courses_completed = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		profile.XP,
		profile.Level,
		profile.CurrentStreak,
		profile.LongestStreak,
		profile.LessonsCompleted,
		profile.CoursesCompleted,
		time.Now().UTC(),
		profile.ID,
	)

	if err != nil {
		log.Error("failed to update learner",
			slog.String("error", err.Error()),
			slog.String("learner_id", profile.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "learner"); err != nil {
		log.Debug("learner not found for update",
			slog.String("learner_id", profile.ID.String()))
		return store.ErrLearnerNotFound
	}

	return nil
}

// WithTx implements store.LearnerStore.WithTx
func (s *PostgresLearnerStore) WithTx(tx *sql.Tx) store.LearnerStore {
	return &PostgresLearnerStore{
		db:     tx,
		logger: s.logger,
	}
}

const learnerSelectColumns = `
	SELECT id, email, hashed_password, xp, level, current_streak, longest_streak,
	       lessons_completed, courses_completed, created_at, updated_at
	FROM learner_profiles`

func (s *PostgresLearnerStore) scanLearner(row *sql.Row) (*domain.LearnerProfile, error) {
	var profile domain.LearnerProfile
	err := row.Scan(
		&profile.ID,
		&profile.Email,
		&profile.HashedPassword,
		&profile.XP,
		&profile.Level,
		&profile.CurrentStreak,
		&profile.LongestStreak,
		&profile.LessonsCompleted,
		&profile.CoursesCompleted,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
