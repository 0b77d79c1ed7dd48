package service_test

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dchandra05/sprout-api/internal/domain"
	"github.com/dchandra05/sprout-api/internal/domain/budget"
	"github.com/dchandra05/sprout-api/internal/store"
)

// The fakes below are in-memory stand-ins for the postgres stores. They
// preserve the contracts the services rely on (sentinel errors, ledger
// uniqueness, idempotent activity rows) and ignore transactions: WithTx
// returns the same instance, and the sqlmock database underneath the
// services only verifies begin/commit pairing.

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// expectTx queues one begin/commit pair on the mock connection.
func expectTx(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectCommit()
}

// expectRolledBackTx queues a begin/rollback pair for operations that
// are expected to fail inside the transaction.
func expectRolledBackTx(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectRollback()
}

type fakeLearnerStore struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*domain.LearnerProfile
}

func newFakeLearnerStore() *fakeLearnerStore {
	return &fakeLearnerStore{byID: make(map[uuid.UUID]*domain.LearnerProfile)}
}

func (s *fakeLearnerStore) Create(ctx context.Context, profile *domain.LearnerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.byID {
		if p.Email == profile.Email {
			return store.ErrEmailExists
		}
	}
	clone := *profile
	s.byID[profile.ID] = &clone
	return nil
}

func (s *fakeLearnerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LearnerProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, store.ErrLearnerNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *fakeLearnerStore) GetByEmail(ctx context.Context, email string) (*domain.LearnerProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.byID {
		if p.Email == email {
			clone := *p
			return &clone, nil
		}
	}
	return nil, store.ErrLearnerNotFound
}

func (s *fakeLearnerStore) Update(ctx context.Context, profile *domain.LearnerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[profile.ID]; !ok {
		return store.ErrLearnerNotFound
	}
	clone := *profile
	s.byID[profile.ID] = &clone
	return nil
}

func (s *fakeLearnerStore) WithTx(tx *sql.Tx) store.LearnerStore { return s }

type fakeContentStore struct {
	units map[uuid.UUID]*domain.Unit
}

func newFakeContentStore(units ...*domain.Unit) *fakeContentStore {
	s := &fakeContentStore{units: make(map[uuid.UUID]*domain.Unit)}
	for _, u := range units {
		s.units[u.ID] = u
	}
	return s
}

func (s *fakeContentStore) GetUnit(ctx context.Context, id uuid.UUID) (*domain.Unit, error) {
	u, ok := s.units[id]
	if !ok {
		return nil, store.ErrUnitNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *fakeContentStore) ListUnitsInOrder(ctx context.Context, parentID uuid.UUID) ([]*domain.Unit, error) {
	var result []*domain.Unit
	for _, u := range s.units {
		if u.ParentID == parentID {
			clone := *u
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

func (s *fakeContentStore) ListCourses(ctx context.Context) ([]*domain.Unit, error) {
	var result []*domain.Unit
	for _, u := range s.units {
		if u.Kind == domain.UnitKindCourse {
			clone := *u
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

func (s *fakeContentStore) WithTx(tx *sql.Tx) store.ContentStore { return s }

type progressKey struct {
	learnerID uuid.UUID
	unitID    uuid.UUID
}

type fakeProgressStore struct {
	mu      sync.Mutex
	records map[progressKey]*domain.ProgressRecord
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{records: make(map[progressKey]*domain.ProgressRecord)}
}

func (s *fakeProgressStore) Get(ctx context.Context, learnerID, unitID uuid.UUID) (*domain.ProgressRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[progressKey{learnerID, unitID}]
	if !ok {
		return nil, store.ErrProgressNotFound
	}
	clone := *r
	return &clone, nil
}

func (s *fakeProgressStore) ListByLearner(ctx context.Context, learnerID uuid.UUID) ([]*domain.ProgressRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domain.ProgressRecord
	for k, r := range s.records {
		if k.learnerID == learnerID {
			clone := *r
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (s *fakeProgressStore) Upsert(ctx context.Context, record *domain.ProgressRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *record
	s.records[progressKey{record.LearnerID, record.UnitID}] = &clone
	return nil
}

func (s *fakeProgressStore) WithTx(tx *sql.Tx) store.ProgressStore { return s }

type activityKey struct {
	learnerID uuid.UUID
	day       time.Time
	kind      domain.ActivityKind
}

type fakeActivityStore struct {
	mu   sync.Mutex
	rows map[activityKey]struct{}
}

func newFakeActivityStore() *fakeActivityStore {
	return &fakeActivityStore{rows: make(map[activityKey]struct{})}
}

func (s *fakeActivityStore) Record(ctx context.Context, record *domain.ActivityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[activityKey{record.LearnerID, record.Day, record.Kind}] = struct{}{}
	return nil
}

func (s *fakeActivityStore) ListActiveDays(ctx context.Context, learnerID uuid.UUID) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[time.Time]struct{})
	for k := range s.rows {
		if k.learnerID == learnerID {
			seen[k.day] = struct{}{}
		}
	}
	days := make([]time.Time, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, nil
}

func (s *fakeActivityStore) WithTx(tx *sql.Tx) store.ActivityStore { return s }

type fakeChallengeStore struct {
	challenges []*domain.Challenge
}

func newFakeChallengeStore(challenges ...*domain.Challenge) *fakeChallengeStore {
	return &fakeChallengeStore{challenges: challenges}
}

func (s *fakeChallengeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Challenge, error) {
	for _, ch := range s.challenges {
		if ch.ID == id {
			clone := *ch
			return &clone, nil
		}
	}
	return nil, store.ErrChallengeNotFound
}

func (s *fakeChallengeStore) ListAll(ctx context.Context) ([]*domain.Challenge, error) {
	result := make([]*domain.Challenge, 0, len(s.challenges))
	for _, ch := range s.challenges {
		clone := *ch
		result = append(result, &clone)
	}
	return result, nil
}

func (s *fakeChallengeStore) WithTx(tx *sql.Tx) store.ChallengeStore { return s }

type challengeProgressKey struct {
	learnerID   uuid.UUID
	challengeID uuid.UUID
	periodKey   string
}

type fakeChallengeProgressStore struct {
	mu   sync.Mutex
	rows map[challengeProgressKey]*domain.ChallengeProgress
}

func newFakeChallengeProgressStore() *fakeChallengeProgressStore {
	return &fakeChallengeProgressStore{rows: make(map[challengeProgressKey]*domain.ChallengeProgress)}
}

func (s *fakeChallengeProgressStore) Get(
	ctx context.Context,
	learnerID, challengeID uuid.UUID,
	periodKey string,
) (*domain.ChallengeProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[challengeProgressKey{learnerID, challengeID, periodKey}]
	if !ok {
		return nil, store.ErrChallengeProgressNotFound
	}
	clone := *row
	return &clone, nil
}

func (s *fakeChallengeProgressStore) ListByLearner(
	ctx context.Context,
	learnerID uuid.UUID,
	periodKeys []string,
) ([]*domain.ChallengeProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[string]struct{}, len(periodKeys))
	for _, k := range periodKeys {
		wanted[k] = struct{}{}
	}
	var result []*domain.ChallengeProgress
	for k, row := range s.rows {
		if k.learnerID != learnerID {
			continue
		}
		if _, ok := wanted[k.periodKey]; !ok {
			continue
		}
		clone := *row
		result = append(result, &clone)
	}
	return result, nil
}

func (s *fakeChallengeProgressStore) Upsert(ctx context.Context, progress *domain.ChallengeProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *progress
	s.rows[challengeProgressKey{progress.LearnerID, progress.ChallengeID, progress.PeriodKey}] = &clone
	return nil
}

func (s *fakeChallengeProgressStore) WithTx(tx *sql.Tx) store.ChallengeProgressStore { return s }

type awardKey struct {
	learnerID uuid.UUID
	reason    string
}

type fakeAwardStore struct {
	mu     sync.Mutex
	awards map[awardKey]*domain.XPAward
}

func newFakeAwardStore() *fakeAwardStore {
	return &fakeAwardStore{awards: make(map[awardKey]*domain.XPAward)}
}

func (s *fakeAwardStore) Insert(ctx context.Context, award *domain.XPAward) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := awardKey{award.LearnerID, award.Reason}
	if _, ok := s.awards[key]; ok {
		return false, nil
	}
	clone := *award
	s.awards[key] = &clone
	return true, nil
}

func (s *fakeAwardStore) ListByLearner(ctx context.Context, learnerID uuid.UUID) ([]*domain.XPAward, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domain.XPAward
	for k, a := range s.awards {
		if k.learnerID == learnerID {
			clone := *a
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (s *fakeAwardStore) WithTx(tx *sql.Tx) store.XPAwardStore { return s }

type budgetKey struct {
	learnerID uuid.UUID
	kind      budget.ScenarioKind
}

type fakeBudgetStore struct {
	mu        sync.Mutex
	tables    map[budgetKey]*budget.Table
	confirmed map[budgetKey]struct{}
}

func newFakeBudgetStore() *fakeBudgetStore {
	return &fakeBudgetStore{
		tables:    make(map[budgetKey]*budget.Table),
		confirmed: make(map[budgetKey]struct{}),
	}
}

func (s *fakeBudgetStore) GetTable(
	ctx context.Context,
	learnerID uuid.UUID,
	kind budget.ScenarioKind,
) (*budget.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table, ok := s.tables[budgetKey{learnerID, kind}]
	if !ok {
		return nil, store.ErrBudgetTableNotFound
	}
	return cloneTable(table), nil
}

func (s *fakeBudgetStore) SaveTable(
	ctx context.Context,
	learnerID uuid.UUID,
	kind budget.ScenarioKind,
	table *budget.Table,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[budgetKey{learnerID, kind}] = cloneTable(table)
	return nil
}

func (s *fakeBudgetStore) Confirm(
	ctx context.Context,
	learnerID uuid.UUID,
	kind budget.ScenarioKind,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := budgetKey{learnerID, kind}
	if _, ok := s.confirmed[key]; ok {
		return false, nil
	}
	s.confirmed[key] = struct{}{}
	return true, nil
}

func (s *fakeBudgetStore) IsConfirmed(
	ctx context.Context,
	learnerID uuid.UUID,
	kind budget.ScenarioKind,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.confirmed[budgetKey{learnerID, kind}]
	return ok, nil
}

func (s *fakeBudgetStore) WithTx(tx *sql.Tx) store.BudgetStore { return s }

func cloneTable(t *budget.Table) *budget.Table {
	clone := &budget.Table{}
	for i, month := range t.Months {
		copied := make(budget.Month, len(month))
		for cat, v := range month {
			copied[cat] = v
		}
		clone.Months[i] = copied
	}
	return clone
}

type fakeGoalStore struct {
	mu    sync.Mutex
	goals map[uuid.UUID]*domain.SavingsGoal
}

func newFakeGoalStore() *fakeGoalStore {
	return &fakeGoalStore{goals: make(map[uuid.UUID]*domain.SavingsGoal)}
}

func (s *fakeGoalStore) Create(ctx context.Context, goal *domain.SavingsGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *goal
	s.goals[goal.ID] = &clone
	return nil
}

func (s *fakeGoalStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok {
		return nil, store.ErrGoalNotFound
	}
	clone := *g
	return &clone, nil
}

func (s *fakeGoalStore) ListByLearner(ctx context.Context, learnerID uuid.UUID) ([]*domain.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domain.SavingsGoal
	for _, g := range s.goals {
		if g.LearnerID == learnerID {
			clone := *g
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (s *fakeGoalStore) Update(ctx context.Context, goal *domain.SavingsGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[goal.ID]; !ok {
		return store.ErrGoalNotFound
	}
	clone := *goal
	s.goals[goal.ID] = &clone
	return nil
}

func (s *fakeGoalStore) WithTx(tx *sql.Tx) store.GoalStore { return s }
