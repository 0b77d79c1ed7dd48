package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallengePeriodKey(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, time.August, 31, 14, 30, 0, 0, time.UTC)

	daily := Challenge{Type: ChallengeDaily}
	assert.Equal(t, "2026-08-31", daily.PeriodKey(at))

	weekly := Challenge{Type: ChallengeWeekly}
	assert.Equal(t, "2026-W36", weekly.PeriodKey(at))

	milestone := Challenge{Type: ChallengeMilestone}
	assert.Equal(t, "", milestone.PeriodKey(at))
}

func TestChallengePeriodKeyUsesUTCDay(t *testing.T) {
	t.Parallel()

	// 23:30 in UTC-5 is already the next day in UTC; the period key
	// must follow the UTC calendar.
	loc := time.FixedZone("UTC-5", -5*3600)
	at := time.Date(2026, time.August, 30, 23, 30, 0, 0, loc)

	daily := Challenge{Type: ChallengeDaily}
	assert.Equal(t, "2026-08-31", daily.PeriodKey(at))
}

func TestChallengeValidate(t *testing.T) {
	t.Parallel()

	valid := Challenge{
		ID:               uuid.New(),
		Type:             ChallengeDaily,
		RequirementKind:  RequireCompleteLesson,
		RequirementValue: 1,
		XPReward:         20,
	}
	assert.NoError(t, valid.Validate())

	invalidKind := valid
	invalidKind.RequirementKind = RequirementKind("collect_badges")
	assert.ErrorIs(t, invalidKind.Validate(), ErrInvalidRequirementKind)

	invalidTarget := valid
	invalidTarget.RequirementValue = 0
	assert.ErrorIs(t, invalidTarget.Validate(), ErrRequirementValueInvalid)
}

func TestChallengeProgressAdvance(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	progress := NewChallengeProgress(uuid.New(), uuid.New(), "2026-08-31")

	completedNow, err := progress.Advance(2, 3, now)
	require.NoError(t, err)
	assert.False(t, completedNow)
	assert.False(t, progress.Completed)

	completedNow, err = progress.Advance(3, 3, now)
	require.NoError(t, err)
	assert.True(t, completedNow)
	assert.True(t, progress.Completed)

	// Advancing a completed row is a no-op and never reports the
	// transition again.
	completedNow, err = progress.Advance(10, 3, now)
	require.NoError(t, err)
	assert.False(t, completedNow)
	assert.Equal(t, 3, progress.Progress)
}

func TestChallengeProgressRejectsRegression(t *testing.T) {
	t.Parallel()

	progress := NewChallengeProgress(uuid.New(), uuid.New(), "")
	_, err := progress.Advance(5, 10, time.Now().UTC())
	require.NoError(t, err)

	_, err = progress.Advance(4, 10, time.Now().UTC())
	assert.ErrorIs(t, err, ErrProgressDecreased)
}

func TestSavingsGoalContribute(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	goal, err := NewSavingsGoal(uuid.New(), "new laptop", 500)
	require.NoError(t, err)

	completedNow, err := goal.Contribute(300, now)
	require.NoError(t, err)
	assert.False(t, completedNow)
	assert.False(t, goal.Completed)

	completedNow, err = goal.Contribute(200, now)
	require.NoError(t, err)
	assert.True(t, completedNow)
	assert.True(t, goal.Completed)

	// Completion never reverts and never re-fires.
	completedNow, err = goal.Contribute(50, now)
	require.NoError(t, err)
	assert.False(t, completedNow)
	assert.True(t, goal.Completed)

	_, err = goal.Contribute(0, now)
	assert.ErrorIs(t, err, ErrGoalContributionInvalid)
}
