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
	"github.com/dchandra05/sprout-api/internal/domain/progression"
	"github.com/dchandra05/sprout-api/internal/platform/logger"
	"github.com/dchandra05/sprout-api/internal/service/auth"
	"github.com/dchandra05/sprout-api/internal/store"
)

// TokenPair holds a freshly issued access and refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResult is the outcome of a successful registration or login.
type AuthResult struct {
	Profile *domain.LearnerProfile `json:"profile"`
	Tokens  TokenPair              `json:"tokens"`
}

// LearnerService orchestrates registration, login, token refresh, and
// profile retrieval.
type LearnerService interface {
	// Register creates a new learner account and returns the profile
	// with an initial token pair. Returns store.ErrEmailExists when the
	// email is already registered.
	Register(ctx context.Context, email, password string) (*AuthResult, error)

	// Login authenticates a learner and records the login as streak
	// activity, updating the stored streak counters. Returns
	// ErrInvalidCredentials for an unknown email or a wrong password.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// Refresh exchanges a valid refresh token for a new token pair.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)

	// GetProfile retrieves a learner's profile by ID.
	GetProfile(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerProfile, error)
}

// learnerServiceImpl implements the LearnerService interface.
type learnerServiceImpl struct {
	db       *sql.DB
	learners store.LearnerStore
	activity store.ActivityStore
	engine   progression.Service
	rewards  *Rewarder
	jwt      auth.JWTService
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	logger   *slog.Logger
}

// NewLearnerService creates a new LearnerService.
// It returns an error if any of the required dependencies are nil.
func NewLearnerService(
	db *sql.DB,
	learners store.LearnerStore,
	activity store.ActivityStore,
	engine progression.Service,
	rewards *Rewarder,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	log *slog.Logger,
) (LearnerService, error) {
	if db == nil {
		return nil, NewServiceError("new_learner_service", "db cannot be nil", domain.ErrValidation)
	}
	if learners == nil || activity == nil || rewards == nil {
		return nil, NewServiceError("new_learner_service", "stores cannot be nil", domain.ErrValidation)
	}
	if engine == nil || jwtService == nil || hasher == nil || verifier == nil {
		return nil, NewServiceError("new_learner_service", "auth dependencies cannot be nil", domain.ErrValidation)
	}

	if log == nil {
		log = slog.Default()
	}

	return &learnerServiceImpl{
		db:       db,
		learners: learners,
		activity: activity,
		engine:   engine,
		rewards:  rewards,
		jwt:      jwtService,
		hasher:   hasher,
		verifier: verifier,
		logger:   log.With(slog.String("component", "learner_service")),
	}, nil
}

// Register implements LearnerService.Register
func (s *learnerServiceImpl) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(password) < domain.PasswordMinLength {
		return nil, fmt.Errorf("password must be at least %d characters: %w",
			domain.PasswordMinLength, domain.ErrInvalidPassword)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, NewServiceError("register", "failed to hash password", err)
	}

	profile, err := domain.NewLearnerProfile(email, hashed)
	if err != nil {
		return nil, err
	}

	if err := s.learners.Create(ctx, profile); err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	log.Info("learner registered", slog.String("learner_id", profile.ID.String()))
	return &AuthResult{Profile: profile, Tokens: *tokens}, nil
}

// Login implements LearnerService.Login
func (s *learnerServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := time.Now().UTC()

	profile, err := s.learners.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrLearnerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.verifier.Compare(profile.HashedPassword, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txActivity := s.activity.WithTx(tx)
		txRewards := s.rewards.withTx(tx)

		if err := txActivity.Record(ctx, domain.NewActivityRecord(
			profile.ID, domain.ActivityLogin, now,
		)); err != nil {
			return err
		}

		if err := txRewards.refreshStreak(ctx, txActivity, profile, now); err != nil {
			return err
		}

		event := progression.ActivityEvent{LoginStreak: profile.CurrentStreak}
		if _, err := txRewards.applyChallengeEvent(ctx, profile, event, now); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	log.Info("learner logged in",
		slog.String("learner_id", profile.ID.String()),
		slog.Int("current_streak", profile.CurrentStreak))
	return &AuthResult{Profile: profile, Tokens: *tokens}, nil
}

// Refresh implements LearnerService.Refresh
func (s *learnerServiceImpl) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	// The learner must still exist; tokens outlive account deletion.
	if _, err := s.learners.GetByID(ctx, claims.LearnerID); err != nil {
		if errors.Is(err, store.ErrLearnerNotFound) {
			return nil, auth.ErrInvalidRefreshToken
		}
		return nil, err
	}

	return s.issueTokens(ctx, claims.LearnerID)
}

// GetProfile implements LearnerService.GetProfile
// The streak counters are re-derived from the activity log at read
// time: a cached run goes stale the moment a calendar day passes with
// no activity, and nothing writes on a lapse.
func (s *learnerServiceImpl) GetProfile(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerProfile, error) {
	profile, err := s.learners.GetByID(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	activeDays, err := s.activity.ListActiveDays(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	streak := s.engine.DeriveStreak(activeDays, time.Now().UTC())
	profile.CurrentStreak = streak.Current
	if streak.Longest > profile.LongestStreak {
		profile.LongestStreak = streak.Longest
	}

	return profile, nil
}

func (s *learnerServiceImpl) issueTokens(ctx context.Context, learnerID uuid.UUID) (*TokenPair, error) {
	access, err := s.jwt.GenerateToken(ctx, learnerID)
	if err != nil {
		return nil, NewServiceError("issue_tokens", "failed to generate access token", err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(ctx, learnerID)
	if err != nil {
		return nil, NewServiceError("issue_tokens", "failed to generate refresh token", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
