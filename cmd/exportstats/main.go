// Package main implements a one-shot stats export: it assembles the current
// progress snapshot and writes it to the configured export directory, the
// same files the server's scheduled export produces.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"github.com/phrazzld/lernbuddy/internal/analytics"
	"github.com/phrazzld/lernbuddy/internal/config"
	"github.com/phrazzld/lernbuddy/internal/platform/logger"
	"github.com/phrazzld/lernbuddy/internal/platform/postgres"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Export failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server.LogLevel)

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	snapshots := analytics.NewService(
		postgres.NewPostgresVocabularyStore(db),
		postgres.NewPostgresUserStatsStore(db),
		postgres.NewPostgresActivityStore(db),
		postgres.NewPostgresAchievementStore(db),
		appLogger,
	)
	exporter := analytics.NewFileExporter(snapshots, cfg.Export.Directory, appLogger)

	if err := exporter.Export(ctx, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to export stats: %w", err)
	}

	fmt.Printf("Stats exported to %s\n", cfg.Export.Directory)
	return nil
}
