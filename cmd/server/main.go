// Package main implements the entry point for the Sprout API server,
// which tracks learners' progress through financial literacy courses
// and awards XP, streaks, and challenge rewards.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/dchandra05/sprout-api/internal/config"
	"github.com/dchandra05/sprout-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String(
		"migrate", "",
		"Run database migrations (up, down, status, version, create) and exit",
	)
	migrationName := flag.String(
		"migration-name", "",
		"Name for a new migration when using -migrate create",
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	if *migrateCmd != "" {
		if err := handleMigrations(cfg, *migrateCmd, *migrationName); err != nil {
			slog.Error("Migration failed", "command", *migrateCmd, "error", err)
			os.Exit(1)
		}
		return
	}

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}
