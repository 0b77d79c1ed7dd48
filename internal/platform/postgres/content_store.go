package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dchandra05/sprout-api/internal/domain"
	"github.com/dchandra05/sprout-api/internal/platform/logger"
	"github.com/dchandra05/sprout-api/internal/store"
)

// PostgresContentStore implements the store.ContentStore interface
// using a PostgreSQL database as the storage backend.
//
// Quiz questions are stored denormalized as a JSONB column on the unit
// row. Content is read-only at runtime, written only by migrations, so
// there is no write path here.
type PostgresContentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresContentStore creates a new PostgreSQL implementation of the ContentStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresContentStore(db store.DBTX, logger *slog.Logger) *PostgresContentStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresContentStore{
		db:     db,
		logger: logger.With(slog.String("component", "content_store")),
	}
}

// Ensure PostgresContentStore implements store.ContentStore interface
var _ store.ContentStore = (*PostgresContentStore)(nil)

const unitSelectColumns = `
	SELECT id, parent_id, kind, title, position, xp_reward, threshold, questions
	FROM units`

// GetUnit implements store.ContentStore.GetUnit
// Returns store.ErrUnitNotFound if the unit does not exist.
func (s *PostgresContentStore) GetUnit(ctx context.Context, id uuid.UUID) (*domain.Unit, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := unitSelectColumns + ` WHERE id = $1`

	var unit domain.Unit
	var parentID sql.Null[uuid.UUID]
	var questionsJSON []byte

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&unit.ID,
		&parentID,
		&unit.Kind,
		&unit.Title,
		&unit.Position,
		&unit.XPReward,
		&unit.Threshold,
		&questionsJSON,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("unit not found", slog.String("unit_id", id.String()))
			return nil, store.ErrUnitNotFound
		}
		log.Error("failed to get unit",
			slog.String("error", err.Error()),
			slog.String("unit_id", id.String()))
		return nil, MapError(err)
	}

	if parentID.Valid {
		unit.ParentID = parentID.V
	}

	if err := unmarshalQuestions(questionsJSON, &unit); err != nil {
		log.Error("failed to decode quiz questions",
			slog.String("error", err.Error()),
			slog.String("unit_id", id.String()))
		return nil, err
	}

	return &unit, nil
}

// ListUnitsInOrder implements store.ContentStore.ListUnitsInOrder
func (s *PostgresContentStore) ListUnitsInOrder(
	ctx context.Context,
	parentID uuid.UUID,
) ([]*domain.Unit, error) {
	query := unitSelectColumns + ` WHERE parent_id = $1 ORDER BY position ASC`
	return s.listUnits(ctx, query, parentID)
}

// ListCourses implements store.ContentStore.ListCourses
func (s *PostgresContentStore) ListCourses(ctx context.Context) ([]*domain.Unit, error) {
	query := unitSelectColumns + ` WHERE kind = $1 ORDER BY position ASC`
	return s.listUnits(ctx, query, domain.UnitKindCourse)
}

// WithTx implements store.ContentStore.WithTx
func (s *PostgresContentStore) WithTx(tx *sql.Tx) store.ContentStore {
	return &PostgresContentStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresContentStore) listUnits(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.Unit, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query units", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	units := []*domain.Unit{}
	for rows.Next() {
		var unit domain.Unit
		var parentID sql.Null[uuid.UUID]
		var questionsJSON []byte

		err := rows.Scan(
			&unit.ID,
			&parentID,
			&unit.Kind,
			&unit.Title,
			&unit.Position,
			&unit.XPReward,
			&unit.Threshold,
			&questionsJSON,
		)
		if err != nil {
			log.Error("failed to scan unit row", slog.String("error", err.Error()))
			return nil, err
		}

		if parentID.Valid {
			unit.ParentID = parentID.V
		}

		if err := unmarshalQuestions(questionsJSON, &unit); err != nil {
			log.Error("failed to decode quiz questions",
				slog.String("error", err.Error()),
				slog.String("unit_id", unit.ID.String()))
			return nil, err
		}

		units = append(units, &unit)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return units, nil
}

func unmarshalQuestions(raw []byte, unit *domain.Unit) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &unit.Questions); err != nil {
		return fmt.Errorf("invalid questions payload for unit %s: %w", unit.ID, err)
	}
	return nil
}
