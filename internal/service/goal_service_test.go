package service_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dchandra05/sprout-api/internal/domain"
	"github.com/dchandra05/sprout-api/internal/events"
	"github.com/dchandra05/sprout-api/internal/service"
)

type goalEnv struct {
	mock    sqlmock.Sqlmock
	svc     service.GoalService
	goals   *fakeGoalStore
	emitter *events.InMemoryEventEmitter
}

func newGoalEnv(t *testing.T) *goalEnv {
	t.Helper()

	db, mock := newMockDB(t)
	log := slog.Default()
	goals := newFakeGoalStore()
	emitter := events.NewInMemoryEventEmitter(log)

	svc, err := service.NewGoalService(db, goals, emitter, log)
	require.NoError(t, err)

	return &goalEnv{mock: mock, svc: svc, goals: goals, emitter: emitter}
}

func TestCreateAndListGoals(t *testing.T) {
	env := newGoalEnv(t)
	ctx := context.Background()
	learnerID := uuid.New()

	goal, err := env.svc.Create(ctx, learnerID, "New bike", 250)
	require.NoError(t, err)
	assert.Equal(t, "New bike", goal.Name)
	assert.Equal(t, 0.0, goal.CurrentAmount)
	assert.False(t, goal.Completed)

	listed, err := env.svc.List(ctx, learnerID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, goal.ID, listed[0].ID)
}

func TestCreateGoalRejectsBadTarget(t *testing.T) {
	env := newGoalEnv(t)

	_, err := env.svc.Create(context.Background(), uuid.New(), "Nothing", 0)
	assert.ErrorIs(t, err, domain.ErrGoalTargetInvalid)
}

func TestContributeAccumulatesAndCompletesOnce(t *testing.T) {
	env := newGoalEnv(t)
	ctx := context.Background()
	learnerID := uuid.New()

	goal, err := env.svc.Create(ctx, learnerID, "New bike", 100)
	require.NoError(t, err)

	expectTx(env.mock)
	result, err := env.svc.Contribute(ctx, learnerID, goal.ID, 60)
	require.NoError(t, err)
	assert.Equal(t, 60.0, result.Goal.CurrentAmount)
	assert.False(t, result.CompletedNow)

	expectTx(env.mock)
	result, err = env.svc.Contribute(ctx, learnerID, goal.ID, 40)
	require.NoError(t, err)
	assert.True(t, result.CompletedNow)
	assert.True(t, result.Goal.Completed)

	// Over-contributing after completion never re-fires the transition.
	expectTx(env.mock)
	result, err = env.svc.Contribute(ctx, learnerID, goal.ID, 10)
	require.NoError(t, err)
	assert.False(t, result.CompletedNow)
	assert.True(t, result.Goal.Completed)
	assert.Equal(t, 110.0, result.Goal.CurrentAmount)
}

func TestContributeRejectsNonPositiveAmount(t *testing.T) {
	env := newGoalEnv(t)
	ctx := context.Background()
	learnerID := uuid.New()

	goal, err := env.svc.Create(ctx, learnerID, "New bike", 100)
	require.NoError(t, err)

	expectRolledBackTx(env.mock)
	_, err = env.svc.Contribute(ctx, learnerID, goal.ID, 0)
	assert.ErrorIs(t, err, domain.ErrGoalContributionInvalid)
}

func TestContributeRejectsForeignGoal(t *testing.T) {
	env := newGoalEnv(t)
	ctx := context.Background()

	goal, err := env.svc.Create(ctx, uuid.New(), "Someone else's bike", 100)
	require.NoError(t, err)

	expectRolledBackTx(env.mock)
	_, err = env.svc.Contribute(ctx, uuid.New(), goal.ID, 10)
	assert.ErrorIs(t, err, service.ErrGoalNotOwned)
}

func TestGoalCompletionEmitsEvent(t *testing.T) {
	env := newGoalEnv(t)
	ctx := context.Background()
	learnerID := uuid.New()

	var received []*events.ProgressionEvent
	env.emitter.RegisterHandler(events.EventHandlerFunc(
		func(ctx context.Context, event *events.ProgressionEvent) error {
			received = append(received, event)
			return nil
		},
	))

	goal, err := env.svc.Create(ctx, learnerID, "New bike", 50)
	require.NoError(t, err)

	expectTx(env.mock)
	_, err = env.svc.Contribute(ctx, learnerID, goal.ID, 50)
	require.NoError(t, err)

	require.Len(t, received, 1)
	assert.Equal(t, events.EventGoalCompleted, received[0].Type)
	assert.Equal(t, learnerID, received[0].LearnerID)
}
