package service_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dchandra05/sprout-api/internal/domain"
	"github.com/dchandra05/sprout-api/internal/service"
)

func TestListChallengesMergesCurrentPeriodProgress(t *testing.T) {
	learnerID := uuid.New()
	now := time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC)

	daily := &domain.Challenge{
		ID:               uuid.New(),
		Type:             domain.ChallengeDaily,
		RequirementKind:  domain.RequireCompleteLesson,
		RequirementValue: 3,
		XPReward:         20,
		Title:            "Three lessons today",
	}
	weekly := &domain.Challenge{
		ID:               uuid.New(),
		Type:             domain.ChallengeWeekly,
		RequirementKind:  domain.RequireEarnXP,
		RequirementValue: 200,
		XPReward:         50,
		Title:            "Earn 200 XP this week",
	}
	milestone := &domain.Challenge{
		ID:               uuid.New(),
		Type:             domain.ChallengeMilestone,
		RequirementKind:  domain.RequireCompleteCourse,
		RequirementValue: 1,
		XPReward:         100,
		Title:            "Finish your first course",
	}

	challengeStore := newFakeChallengeStore(daily, weekly, milestone)
	progressStore := newFakeChallengeProgressStore()

	// Progress in the current day and a completed milestone.
	dailyRow := domain.NewChallengeProgress(learnerID, daily.ID, daily.PeriodKey(now))
	dailyRow.Progress = 2
	require.NoError(t, progressStore.Upsert(context.Background(), dailyRow))

	milestoneRow := domain.NewChallengeProgress(learnerID, milestone.ID, "")
	_, err := milestoneRow.Advance(1, milestone.RequirementValue, now)
	require.NoError(t, err)
	require.NoError(t, progressStore.Upsert(context.Background(), milestoneRow))

	// A stale row from yesterday must not leak into today's view.
	staleRow := domain.NewChallengeProgress(learnerID, daily.ID, daily.PeriodKey(now.AddDate(0, 0, -1)))
	staleRow.Progress = 3
	require.NoError(t, progressStore.Upsert(context.Background(), staleRow))

	svc, err := service.NewChallengeService(challengeStore, progressStore, slog.Default())
	require.NoError(t, err)

	listed, err := svc.ListChallenges(context.Background(), learnerID, now)
	require.NoError(t, err)
	require.Len(t, listed, 3)

	byID := make(map[uuid.UUID]service.ChallengeWithProgress, len(listed))
	for _, entry := range listed {
		byID[entry.Challenge.ID] = entry
	}

	assert.Equal(t, 2, byID[daily.ID].Progress)
	assert.False(t, byID[daily.ID].Completed)
	assert.Equal(t, "2026-08-31", byID[daily.ID].PeriodKey)

	assert.Equal(t, 0, byID[weekly.ID].Progress)
	assert.Equal(t, "2026-W36", byID[weekly.ID].PeriodKey)

	assert.Equal(t, 1, byID[milestone.ID].Progress)
	assert.True(t, byID[milestone.ID].Completed)
	assert.Equal(t, "", byID[milestone.ID].PeriodKey)
}

func TestListChallengesEmptyCatalog(t *testing.T) {
	svc, err := service.NewChallengeService(
		newFakeChallengeStore(), newFakeChallengeProgressStore(), slog.Default(),
	)
	require.NoError(t, err)

	listed, err := svc.ListChallenges(context.Background(), uuid.New(), time.Now().UTC())
	require.NoError(t, err)
	assert.Empty(t, listed)
}
