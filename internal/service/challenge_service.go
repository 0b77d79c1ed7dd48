package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dchandra05/sprout-api/internal/domain"
	"github.com/dchandra05/sprout-api/internal/store"
)

// ChallengeWithProgress pairs a challenge definition with the learner's
// progress in the challenge's current period.
type ChallengeWithProgress struct {
	Challenge domain.Challenge `json:"challenge"`
	PeriodKey string           `json:"period_key"`
	Progress  int              `json:"progress"`
	Completed bool             `json:"completed"`
}

// ChallengeService exposes the challenge catalog with the learner's
// current-period progress. Progress advancement happens as a side
// effect of the other services; this one only reads.
type ChallengeService interface {
	// ListChallenges returns every defined challenge with the learner's
	// progress in the period containing now. Challenges the learner has
	// not touched this period show zero progress.
	ListChallenges(ctx context.Context, learnerID uuid.UUID, now time.Time) ([]ChallengeWithProgress, error)
}

// challengeServiceImpl implements the ChallengeService interface.
type challengeServiceImpl struct {
	challenges store.ChallengeStore
	progress   store.ChallengeProgressStore
	logger     *slog.Logger
}

// NewChallengeService creates a new ChallengeService.
// It returns an error if any of the required dependencies are nil.
func NewChallengeService(
	challenges store.ChallengeStore,
	progress store.ChallengeProgressStore,
	log *slog.Logger,
) (ChallengeService, error) {
	if challenges == nil || progress == nil {
		return nil, NewServiceError("new_challenge_service", "stores cannot be nil", domain.ErrValidation)
	}

	if log == nil {
		log = slog.Default()
	}

	return &challengeServiceImpl{
		challenges: challenges,
		progress:   progress,
		logger:     log.With(slog.String("component", "challenge_service")),
	}, nil
}

// ListChallenges implements ChallengeService.ListChallenges
func (s *challengeServiceImpl) ListChallenges(
	ctx context.Context,
	learnerID uuid.UUID,
	now time.Time,
) ([]ChallengeWithProgress, error) {
	all, err := s.challenges.ListAll(ctx)
	if err != nil {
		return nil, NewServiceError("list_challenges", "failed to load challenge catalog", err)
	}

	// One fetch covers all three period shapes: today's key, this ISO
	// week's key, and the empty milestone key.
	day := domain.Challenge{Type: domain.ChallengeDaily}
	week := domain.Challenge{Type: domain.ChallengeWeekly}
	periodKeys := []string{day.PeriodKey(now), week.PeriodKey(now), ""}

	rows, err := s.progress.ListByLearner(ctx, learnerID, periodKeys)
	if err != nil {
		return nil, NewServiceError("list_challenges", "failed to load challenge progress", err)
	}

	type progressKey struct {
		challengeID uuid.UUID
		periodKey   string
	}
	byKey := make(map[progressKey]*domain.ChallengeProgress, len(rows))
	for _, row := range rows {
		byKey[progressKey{row.ChallengeID, row.PeriodKey}] = row
	}

	result := make([]ChallengeWithProgress, 0, len(all))
	for _, ch := range all {
		periodKey := ch.PeriodKey(now)
		entry := ChallengeWithProgress{Challenge: *ch, PeriodKey: periodKey}
		if row, ok := byKey[progressKey{ch.ID, periodKey}]; ok {
			entry.Progress = row.Progress
			entry.Completed = row.Completed
		}
		result = append(result, entry)
	}

	return result, nil
}
