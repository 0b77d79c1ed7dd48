package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dchandra05/sprout-api/internal/domain"
	"github.com/dchandra05/sprout-api/internal/domain/budget"
	"github.com/dchandra05/sprout-api/internal/domain/progression"
	"github.com/dchandra05/sprout-api/internal/events"
	"github.com/dchandra05/sprout-api/internal/platform/logger"
	"github.com/dchandra05/sprout-api/internal/store"
)

// XP award reason keys. Each key is deterministic for its triggering
// event, which is what makes the ledger idempotent: the same completion
// can only ever produce the same key.
func unitAwardReason(unitID uuid.UUID) string {
	return fmt.Sprintf("unit:%s", unitID)
}

func courseAwardReason(courseID uuid.UUID) string {
	return fmt.Sprintf("course:%s", courseID)
}

func challengeAwardReason(challengeID uuid.UUID, periodKey string) string {
	return fmt.Sprintf("challenge:%s:%s", challengeID, periodKey)
}

func budgetAwardReason(kind budget.ScenarioKind) string {
	return fmt.Sprintf("budget:%s", kind)
}

// Rewarder bundles the stores and rules involved in granting XP and
// advancing challenges. It is shared by every service that completes
// things, always via withTx so all its writes join the caller's
// transaction.
type Rewarder struct {
	engine            progression.Service
	learners          store.LearnerStore
	awards            store.XPAwardStore
	challenges        store.ChallengeStore
	challengeProgress store.ChallengeProgressStore
	emitter           events.EventEmitter
	logger            *slog.Logger
}

func NewRewarder(
	engine progression.Service,
	learners store.LearnerStore,
	awards store.XPAwardStore,
	challenges store.ChallengeStore,
	challengeProgress store.ChallengeProgressStore,
	emitter events.EventEmitter,
	log *slog.Logger,
) *Rewarder {
	if log == nil {
		log = slog.Default()
	}
	return &Rewarder{
		engine:            engine,
		learners:          learners,
		awards:            awards,
		challenges:        challenges,
		challengeProgress: challengeProgress,
		emitter:           emitter,
		logger:            log,
	}
}

// withTx returns a rewarder whose stores are scoped to the transaction.
func (r *Rewarder) withTx(tx *sql.Tx) *Rewarder {
	return &Rewarder{
		engine:            r.engine,
		learners:          r.learners.WithTx(tx),
		awards:            r.awards.WithTx(tx),
		challenges:        r.challenges.WithTx(tx),
		challengeProgress: r.challengeProgress.WithTx(tx),
		emitter:           r.emitter,
		logger:            r.logger,
	}
}

// grantXP awards XP to the profile through the ledger. When the reason
// was already awarded the grant is a silent no-op and applied is false;
// otherwise the profile's XP and level are updated in place and
// persisted, and xp_awarded / level_up events are emitted.
func (r *Rewarder) grantXP(
	ctx context.Context,
	profile *domain.LearnerProfile,
	reason string,
	amount int,
) (bool, progression.AwardResult, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	if amount <= 0 {
		return false, progression.AwardResult{}, nil
	}

	award, err := domain.NewXPAward(profile.ID, reason, amount)
	if err != nil {
		return false, progression.AwardResult{}, err
	}

	applied, err := r.awards.Insert(ctx, award)
	if err != nil {
		return false, progression.AwardResult{}, err
	}
	if !applied {
		log.Debug("xp already awarded for reason",
			slog.String("learner_id", profile.ID.String()),
			slog.String("reason", reason))
		return false, progression.AwardResult{}, nil
	}

	result := r.engine.ApplyXP(profile.XP, amount)
	profile.XP = result.NewXP
	profile.Level = result.NewLevel

	if err := r.learners.Update(ctx, profile); err != nil {
		return false, progression.AwardResult{}, err
	}

	r.emit(ctx, events.EventXPAwarded, profile.ID, map[string]any{
		"reason": reason,
		"amount": amount,
		"new_xp": result.NewXP,
	})
	if result.LeveledUp {
		log.Info("learner leveled up",
			slog.String("learner_id", profile.ID.String()),
			slog.Int("old_level", result.OldLevel),
			slog.Int("new_level", result.NewLevel))
		r.emit(ctx, events.EventLevelUp, profile.ID, map[string]any{
			"old_level": result.OldLevel,
			"new_level": result.NewLevel,
		})
	}

	return true, result, nil
}

// refreshStreak re-derives the learner's streak from the activity log.
// Call it after recording activity so the cached counters on the
// profile never lag the log; the profile is persisted only when a
// counter actually changed.
func (r *Rewarder) refreshStreak(
	ctx context.Context,
	activity store.ActivityStore,
	profile *domain.LearnerProfile,
	now time.Time,
) error {
	activeDays, err := activity.ListActiveDays(ctx, profile.ID)
	if err != nil {
		return err
	}

	streak := r.engine.DeriveStreak(activeDays, now)
	if streak.Current == profile.CurrentStreak && streak.Longest <= profile.LongestStreak {
		return nil
	}

	profile.CurrentStreak = streak.Current
	if streak.Longest > profile.LongestStreak {
		profile.LongestStreak = streak.Longest
	}
	return r.learners.Update(ctx, profile)
}

// applyChallengeEvent advances every challenge whose requirement the
// event touches, within the challenge's current period. Challenges that
// reach their target are rewarded exactly once per period through the
// ledger. Returns the challenges newly completed by this event.
//
// Reward XP from challenge completions does not feed back into earn_xp
// challenges; only the originating event's XP counts. This keeps
// evaluation a single pass with no cascade.
func (r *Rewarder) applyChallengeEvent(
	ctx context.Context,
	profile *domain.LearnerProfile,
	event progression.ActivityEvent,
	now time.Time,
) ([]*domain.Challenge, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	challenges, err := r.challenges.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var completed []*domain.Challenge
	for _, ch := range challenges {
		periodKey := ch.PeriodKey(now)

		progress, err := r.challengeProgress.Get(ctx, profile.ID, ch.ID, periodKey)
		if err != nil {
			if !errors.Is(err, store.ErrChallengeProgressNotFound) {
				return nil, err
			}
			progress = domain.NewChallengeProgress(profile.ID, ch.ID, periodKey)
		}

		if progress.Completed {
			continue
		}

		next, err := r.engine.ApplyChallengeEvent(*ch, progress.Progress, event)
		if err != nil {
			return nil, err
		}
		if next == progress.Progress {
			continue
		}

		completedNow, err := progress.Advance(next, ch.RequirementValue, now)
		if err != nil {
			return nil, err
		}

		if err := r.challengeProgress.Upsert(ctx, progress); err != nil {
			return nil, err
		}

		if !completedNow {
			continue
		}

		log.Info("challenge completed",
			slog.String("learner_id", profile.ID.String()),
			slog.String("challenge_id", ch.ID.String()),
			slog.String("period_key", periodKey))

		if _, _, err := r.grantXP(
			ctx, profile, challengeAwardReason(ch.ID, periodKey), ch.XPReward,
		); err != nil {
			return nil, err
		}

		r.emit(ctx, events.EventChallengeCompleted, profile.ID, map[string]any{
			"challenge_id": ch.ID,
			"period_key":   periodKey,
			"title":        ch.Title,
		})

		completed = append(completed, ch)
	}

	return completed, nil
}

// emit publishes a milestone event. Handler failures are logged by the
// emitter and never bubble up: milestones must not roll back the
// transaction that produced them.
func (r *Rewarder) emit(ctx context.Context, eventType string, learnerID uuid.UUID, payload any) {
	if r.emitter == nil {
		return
	}

	event, err := events.NewProgressionEvent(eventType, learnerID, payload)
	if err != nil {
		r.logger.Error("failed to build progression event",
			slog.String("error", err.Error()),
			slog.String("event_type", eventType))
		return
	}

	_ = r.emitter.EmitEvent(ctx, event)
}
