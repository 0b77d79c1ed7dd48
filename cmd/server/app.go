package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/dchandra05/sprout-api/internal/config"
	"github.com/dchandra05/sprout-api/internal/domain/progression"
	"github.com/dchandra05/sprout-api/internal/events"
	"github.com/dchandra05/sprout-api/internal/platform/postgres"
	"github.com/dchandra05/sprout-api/internal/service"
	"github.com/dchandra05/sprout-api/internal/service/auth"
	"github.com/dchandra05/sprout-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	learnerStore           store.LearnerStore
	contentStore           store.ContentStore
	progressStore          store.ProgressStore
	activityStore          store.ActivityStore
	challengeStore         store.ChallengeStore
	challengeProgressStore store.ChallengeProgressStore
	awardStore             store.XPAwardStore
	budgetStore            store.BudgetStore
	goalStore              store.GoalStore

	// Services
	jwtService         auth.JWTService
	engine             progression.Service
	learnerService     service.LearnerService
	progressionService service.ProgressionService
	challengeService   service.ChallengeService
	budgetService      service.BudgetService
	goalService        service.GoalService

	// Event system
	eventEmitter events.EventEmitter
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger,
// and database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	verifier := auth.NewBcryptVerifier()

	// Initialize stores
	app.learnerStore = postgres.NewPostgresLearnerStore(db, logger)
	app.contentStore = postgres.NewPostgresContentStore(db, logger)
	app.progressStore = postgres.NewPostgresProgressStore(db, logger)
	app.activityStore = postgres.NewPostgresActivityStore(db, logger)
	app.challengeStore = postgres.NewPostgresChallengeStore(db, logger)
	app.challengeProgressStore = postgres.NewPostgresChallengeProgressStore(db, logger)
	app.awardStore = postgres.NewPostgresXPAwardStore(db, logger)
	app.budgetStore = postgres.NewPostgresBudgetStore(db, logger)
	app.goalStore = postgres.NewPostgresGoalStore(db, logger)

	// Progression rules come from configuration so pass thresholds and
	// level pacing can be tuned per environment.
	app.engine = progression.NewServiceWithParams(progression.NewParams(progression.ParamsConfig{
		XPPerLevel:         cfg.Progression.XPPerLevel,
		LenientPassPercent: cfg.Progression.LenientPassPercent,
	}))

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)

	rewarder := service.NewRewarder(
		app.engine,
		app.learnerStore,
		app.awardStore,
		app.challengeStore,
		app.challengeProgressStore,
		app.eventEmitter,
		logger,
	)

	app.learnerService, err = service.NewLearnerService(
		db,
		app.learnerStore,
		app.activityStore,
		app.engine,
		rewarder,
		app.jwtService,
		hasher,
		verifier,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create learner service: %w", err)
	}

	app.progressionService, err = service.NewProgressionService(
		db,
		app.engine,
		app.contentStore,
		app.progressStore,
		app.activityStore,
		rewarder,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create progression service: %w", err)
	}

	app.challengeService, err = service.NewChallengeService(
		app.challengeStore,
		app.challengeProgressStore,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create challenge service: %w", err)
	}

	app.budgetService, err = service.NewBudgetService(
		db,
		app.budgetStore,
		app.activityStore,
		rewarder,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create budget service: %w", err)
	}

	app.goalService, err = service.NewGoalService(
		db,
		app.goalStore,
		app.eventEmitter,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
