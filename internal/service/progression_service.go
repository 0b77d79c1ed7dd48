package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dchandra05/sprout-api/internal/domain"
	"github.com/dchandra05/sprout-api/internal/domain/progression"
	"github.com/dchandra05/sprout-api/internal/events"
	"github.com/dchandra05/sprout-api/internal/platform/logger"
	"github.com/dchandra05/sprout-api/internal/store"
)

// UnitWithStatus pairs a unit with the learner's gate status and score.
type UnitWithStatus struct {
	Unit      domain.Unit            `json:"unit"`
	Status    progression.UnitStatus `json:"status"`
	QuizScore *int                   `json:"quiz_score,omitempty"`
	Attempts  int                    `json:"attempts"`
}

// QuizOutcome is the result of a quiz submission or direct completion.
type QuizOutcome struct {
	CorrectCount    int  `json:"correct_count"`
	TotalQuestions  int  `json:"total_questions"`
	Percentage      int  `json:"percentage"`
	Passed          bool `json:"passed"`
	UnitCompleted   bool `json:"unit_completed"`
	CourseCompleted bool `json:"course_completed"`
	XPAwarded       int  `json:"xp_awarded"`
	OldLevel        int  `json:"old_level"`
	NewLevel        int  `json:"new_level"`
	LeveledUp       bool `json:"leveled_up"`
}

// ProgressionService orchestrates unit listing, quiz submissions, and
// unit completions against the progression rules.
type ProgressionService interface {
	// ListUnits returns the units under a parent in sequence order with
	// the learner's gate status for each.
	ListUnits(ctx context.Context, learnerID, parentID uuid.UUID) ([]UnitWithStatus, error)

	// SubmitQuiz grades a quiz submission against the unit's questions
	// and records the attempt. A passing submission on a not-yet-completed
	// unit completes it and triggers XP, counters, activity, course
	// completion, and challenge evaluation, all in one transaction.
	// Returns ErrUnitLocked when the unit's predecessor is not completed
	// and ErrNoQuiz when the unit has no questions.
	SubmitQuiz(
		ctx context.Context,
		learnerID, unitID uuid.UUID,
		answers map[int]int,
	) (*QuizOutcome, error)

	// CompleteUnit directly completes a unit that has no quiz.
	// Returns ErrQuizRequired when the unit carries questions and
	// ErrUnitLocked when the unit is not reachable yet.
	CompleteUnit(ctx context.Context, learnerID, unitID uuid.UUID) (*QuizOutcome, error)
}

// progressionServiceImpl implements the ProgressionService interface.
type progressionServiceImpl struct {
	db       *sql.DB
	engine   progression.Service
	content  store.ContentStore
	progress store.ProgressStore
	activity store.ActivityStore
	rewards  *Rewarder
	logger   *slog.Logger
}

// NewProgressionService creates a new ProgressionService.
// It returns an error if any of the required dependencies are nil.
func NewProgressionService(
	db *sql.DB,
	engine progression.Service,
	content store.ContentStore,
	progress store.ProgressStore,
	activity store.ActivityStore,
	rewards *Rewarder,
	log *slog.Logger,
) (ProgressionService, error) {
	if db == nil {
		return nil, NewServiceError("new_progression_service", "db cannot be nil", domain.ErrValidation)
	}
	if engine == nil {
		return nil, NewServiceError("new_progression_service", "engine cannot be nil", domain.ErrValidation)
	}
	if content == nil || progress == nil || activity == nil || rewards == nil {
		return nil, NewServiceError("new_progression_service", "stores cannot be nil", domain.ErrValidation)
	}

	if log == nil {
		log = slog.Default()
	}

	return &progressionServiceImpl{
		db:       db,
		engine:   engine,
		content:  content,
		progress: progress,
		activity: activity,
		rewards:  rewards,
		logger:   log.With(slog.String("component", "progression_service")),
	}, nil
}

// ListUnits implements ProgressionService.ListUnits
func (s *progressionServiceImpl) ListUnits(
	ctx context.Context,
	learnerID, parentID uuid.UUID,
) ([]UnitWithStatus, error) {
	units, err := s.content.ListUnitsInOrder(ctx, parentID)
	if err != nil {
		return nil, NewServiceError("list_units", "failed to load units", err)
	}

	records, err := s.recordsByUnit(ctx, learnerID)
	if err != nil {
		return nil, NewServiceError("list_units", "failed to load progress", err)
	}

	unitValues := make([]domain.Unit, len(units))
	for i, u := range units {
		unitValues[i] = *u
	}
	statuses := s.engine.GateStatuses(unitValues, records)

	result := make([]UnitWithStatus, len(units))
	for i, u := range units {
		entry := UnitWithStatus{Unit: *u, Status: statuses[i]}
		if record, ok := records[u.ID]; ok {
			entry.QuizScore = record.QuizScore
			entry.Attempts = record.Attempts
		}
		// Correct answers are never shipped to the client.
		if len(entry.Unit.Questions) > 0 {
			sanitized := make([]domain.QuizQuestion, len(entry.Unit.Questions))
			copy(sanitized, entry.Unit.Questions)
			for q := range sanitized {
				sanitized[q].CorrectIndex = -1
			}
			entry.Unit.Questions = sanitized
		}
		result[i] = entry
	}

	return result, nil
}

// SubmitQuiz implements ProgressionService.SubmitQuiz
func (s *progressionServiceImpl) SubmitQuiz(
	ctx context.Context,
	learnerID, unitID uuid.UUID,
	answers map[int]int,
) (*QuizOutcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := time.Now().UTC()

	var outcome *QuizOutcome
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txContent := s.content.WithTx(tx)
		txProgress := s.progress.WithTx(tx)
		txRewards := s.rewards.withTx(tx)

		unit, err := txContent.GetUnit(ctx, unitID)
		if err != nil {
			return err
		}
		if !unit.HasQuiz() {
			return ErrNoQuiz
		}

		profile, err := txRewards.learners.GetByID(ctx, learnerID)
		if err != nil {
			return err
		}

		siblings, records, err := s.loadSequence(ctx, txContent, txProgress, learnerID, unit)
		if err != nil {
			return err
		}
		if err := s.checkGate(ctx, siblings, records, unit.ID); err != nil {
			return err
		}

		result, err := s.engine.GradeQuiz(unit.Questions, answers)
		if err != nil {
			return NewServiceError("submit_quiz", "failed to grade submission", err)
		}
		passed := s.engine.Passes(result, unit.Threshold)

		record, ok := records[unit.ID]
		if !ok {
			record, err = domain.NewProgressRecord(learnerID, unit.ID)
			if err != nil {
				return err
			}
		}
		wasCompleted := record.Completed

		if err := record.RecordAttempt(result.Percentage, passed, now); err != nil {
			return err
		}
		if err := txProgress.Upsert(ctx, record); err != nil {
			return err
		}
		records[unit.ID] = record

		outcome = &QuizOutcome{
			CorrectCount:   result.CorrectCount,
			TotalQuestions: result.TotalQuestions,
			Percentage:     result.Percentage,
			Passed:         passed,
			UnitCompleted:  record.Completed,
			OldLevel:       profile.Level,
			NewLevel:       profile.Level,
		}

		if passed && !wasCompleted {
			if err := s.onUnitCompleted(
				ctx, tx, txRewards, profile, unit, siblings, records, true, now, outcome,
			); err != nil {
				return err
			}
		}

		log.Info("quiz submission processed",
			slog.String("learner_id", learnerID.String()),
			slog.String("unit_id", unitID.String()),
			slog.Int("percentage", result.Percentage),
			slog.Bool("passed", passed))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return outcome, nil
}

// CompleteUnit implements ProgressionService.CompleteUnit
func (s *progressionServiceImpl) CompleteUnit(
	ctx context.Context,
	learnerID, unitID uuid.UUID,
) (*QuizOutcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := time.Now().UTC()

	var outcome *QuizOutcome
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txContent := s.content.WithTx(tx)
		txProgress := s.progress.WithTx(tx)
		txRewards := s.rewards.withTx(tx)

		unit, err := txContent.GetUnit(ctx, unitID)
		if err != nil {
			return err
		}
		if unit.HasQuiz() {
			return ErrQuizRequired
		}

		profile, err := txRewards.learners.GetByID(ctx, learnerID)
		if err != nil {
			return err
		}

		siblings, records, err := s.loadSequence(ctx, txContent, txProgress, learnerID, unit)
		if err != nil {
			return err
		}
		if err := s.checkGate(ctx, siblings, records, unit.ID); err != nil {
			return err
		}

		record, ok := records[unit.ID]
		if !ok {
			record, err = domain.NewProgressRecord(learnerID, unit.ID)
			if err != nil {
				return err
			}
		}
		wasCompleted := record.Completed

		record.MarkCompleted(now)
		if err := txProgress.Upsert(ctx, record); err != nil {
			return err
		}
		records[unit.ID] = record

		outcome = &QuizOutcome{
			Passed:        true,
			UnitCompleted: true,
			OldLevel:      profile.Level,
			NewLevel:      profile.Level,
		}

		if !wasCompleted {
			if err := s.onUnitCompleted(
				ctx, tx, txRewards, profile, unit, siblings, records, false, now, outcome,
			); err != nil {
				return err
			}
		}

		log.Info("unit completed directly",
			slog.String("learner_id", learnerID.String()),
			slog.String("unit_id", unitID.String()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return outcome, nil
}

// loadSequence loads the ordered sibling units of the target and the
// learner's progress records keyed by unit.
func (s *progressionServiceImpl) loadSequence(
	ctx context.Context,
	content store.ContentStore,
	progress store.ProgressStore,
	learnerID uuid.UUID,
	unit *domain.Unit,
) ([]domain.Unit, map[uuid.UUID]*domain.ProgressRecord, error) {
	parentID := unit.ParentID
	siblingPtrs, err := content.ListUnitsInOrder(ctx, parentID)
	if err != nil {
		return nil, nil, err
	}

	siblings := make([]domain.Unit, len(siblingPtrs))
	for i, u := range siblingPtrs {
		siblings[i] = *u
	}

	all, err := progress.ListByLearner(ctx, learnerID)
	if err != nil {
		return nil, nil, err
	}
	records := make(map[uuid.UUID]*domain.ProgressRecord, len(all))
	for _, r := range all {
		records[r.UnitID] = r
	}

	return siblings, records, nil
}

func (s *progressionServiceImpl) recordsByUnit(
	ctx context.Context,
	learnerID uuid.UUID,
) (map[uuid.UUID]*domain.ProgressRecord, error) {
	all, err := s.progress.ListByLearner(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	records := make(map[uuid.UUID]*domain.ProgressRecord, len(all))
	for _, r := range all {
		records[r.UnitID] = r
	}
	return records, nil
}

// checkGate enforces the strict ordering at the write boundary: any
// write to a locked unit is rejected no matter what the client showed.
func (s *progressionServiceImpl) checkGate(
	ctx context.Context,
	siblings []domain.Unit,
	records map[uuid.UUID]*domain.ProgressRecord,
	unitID uuid.UUID,
) error {
	statuses := s.engine.GateStatuses(siblings, records)
	for i, u := range siblings {
		if u.ID == unitID {
			if statuses[i] == progression.UnitLocked {
				logger.FromContextOrDefault(ctx, s.logger).Warn("write to locked unit rejected",
					slog.String("unit_id", unitID.String()))
				return ErrUnitLocked
			}
			return nil
		}
	}
	// The unit is not part of its parent's sequence; treat as corrupt content.
	return store.ErrUnitNotFound
}

// onUnitCompleted applies everything a fresh completion triggers: XP,
// profile counters, the daily activity log, course completion, and
// challenge evaluation. All stores are transaction-scoped.
func (s *progressionServiceImpl) onUnitCompleted(
	ctx context.Context,
	tx *sql.Tx,
	txRewards *Rewarder,
	profile *domain.LearnerProfile,
	unit *domain.Unit,
	siblings []domain.Unit,
	records map[uuid.UUID]*domain.ProgressRecord,
	quizPassed bool,
	now time.Time,
	outcome *QuizOutcome,
) error {
	txActivity := s.activity.WithTx(tx)

	if unit.Kind != domain.UnitKindCourse {
		profile.LessonsCompleted++
	}

	applied, award, err := txRewards.grantXP(ctx, profile, unitAwardReason(unit.ID), unit.XPReward)
	if err != nil {
		return err
	}
	if applied {
		outcome.XPAwarded += unit.XPReward
		outcome.NewLevel = award.NewLevel
		outcome.LeveledUp = outcome.LeveledUp || award.LeveledUp
	} else {
		// Counter changes still need persisting when no XP moved.
		if err := txRewards.learners.Update(ctx, profile); err != nil {
			return err
		}
	}

	if err := txActivity.Record(ctx, domain.NewActivityRecord(
		profile.ID, domain.ActivityLessonComplete, now,
	)); err != nil {
		return err
	}
	if quizPassed {
		if err := txActivity.Record(ctx, domain.NewActivityRecord(
			profile.ID, domain.ActivityQuizPassed, now,
		)); err != nil {
			return err
		}
	}

	courseCompletedNow, courseXP, err := s.completeCourseIfDone(
		ctx, tx, txRewards, profile, unit, siblings, records, now,
	)
	if err != nil {
		return err
	}
	if courseCompletedNow {
		outcome.CourseCompleted = true
		outcome.XPAwarded += courseXP
		outcome.NewLevel = profile.Level
		outcome.LeveledUp = outcome.LeveledUp || profile.Level > outcome.OldLevel

		if err := txActivity.Record(ctx, domain.NewActivityRecord(
			profile.ID, domain.ActivityCourseComplete, now,
		)); err != nil {
			return err
		}
	}

	// Completions are streak-qualifying activity, so the cached streak
	// counters must absorb today before challenges see them.
	if err := txRewards.refreshStreak(ctx, txActivity, profile, now); err != nil {
		return err
	}

	event := progression.ActivityEvent{
		LessonCompleted: unit.Kind != domain.UnitKindCourse,
		QuizPassed:      quizPassed,
		CourseCompleted: courseCompletedNow,
		XPEarned:        outcome.XPAwarded,
		LoginStreak:     profile.CurrentStreak,
	}
	if _, err := txRewards.applyChallengeEvent(ctx, profile, event, now); err != nil {
		return err
	}

	return nil
}

// completeCourseIfDone checks whether finishing this unit finished its
// parent course and, if so, completes the course record and grants its
// reward.
func (s *progressionServiceImpl) completeCourseIfDone(
	ctx context.Context,
	tx *sql.Tx,
	txRewards *Rewarder,
	profile *domain.LearnerProfile,
	unit *domain.Unit,
	siblings []domain.Unit,
	records map[uuid.UUID]*domain.ProgressRecord,
	now time.Time,
) (bool, int, error) {
	if unit.ParentID == uuid.Nil || unit.Kind == domain.UnitKindCourse {
		return false, 0, nil
	}

	txContent := s.content.WithTx(tx)
	txProgress := s.progress.WithTx(tx)

	parent, err := txContent.GetUnit(ctx, unit.ParentID)
	if err != nil {
		// A parent that is not a stored unit (e.g. a topic grouping)
		// has no completion of its own.
		if errors.Is(err, store.ErrUnitNotFound) {
			return false, 0, nil
		}
		return false, 0, err
	}
	if parent.Kind != domain.UnitKindCourse {
		return false, 0, nil
	}

	if !s.engine.CourseCompleted(siblings, records) {
		return false, 0, nil
	}

	courseRecord, ok := records[parent.ID]
	if !ok {
		courseRecord, err = domain.NewProgressRecord(profile.ID, parent.ID)
		if err != nil {
			return false, 0, err
		}
	}
	if courseRecord.Completed {
		return false, 0, nil
	}

	courseRecord.MarkCompleted(now)
	if err := txProgress.Upsert(ctx, courseRecord); err != nil {
		return false, 0, err
	}
	records[parent.ID] = courseRecord

	profile.CoursesCompleted++
	applied, _, err := txRewards.grantXP(ctx, profile, courseAwardReason(parent.ID), parent.XPReward)
	if err != nil {
		return false, 0, err
	}
	if !applied {
		if err := txRewards.learners.Update(ctx, profile); err != nil {
			return false, 0, err
		}
	}

	txRewards.emit(ctx, events.EventCourseCompleted, profile.ID, map[string]any{
		"course_id": parent.ID,
		"title":     parent.Title,
	})

	awardedXP := 0
	if applied {
		awardedXP = parent.XPReward
	}
	return true, awardedXP, nil
}
