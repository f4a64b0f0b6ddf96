package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/phrazzld/lernbuddy/internal/analytics"
	"github.com/phrazzld/lernbuddy/internal/config"
	"github.com/phrazzld/lernbuddy/internal/domain/achievements"
	"github.com/phrazzld/lernbuddy/internal/domain/srs"
	"github.com/phrazzld/lernbuddy/internal/events"
	"github.com/phrazzld/lernbuddy/internal/generation"
	"github.com/phrazzld/lernbuddy/internal/platform/gemini"
	"github.com/phrazzld/lernbuddy/internal/platform/postgres"
	"github.com/phrazzld/lernbuddy/internal/service/conversation"
	"github.com/phrazzld/lernbuddy/internal/service/progress"
	"github.com/phrazzld/lernbuddy/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	vocabularyStore  store.VocabularyStore
	userStatsStore   store.UserStatsStore
	activityStore    store.ActivityStore
	achievementStore store.AchievementStore

	// Service interfaces
	srsService          srs.Service
	generator           generation.Generator
	progressService     progress.ProgressService
	conversationService conversation.ConversationService
	analyticsService    *analytics.Service
	exporter            *analytics.FileExporter

	// Event system
	eventEmitter events.EventEmitter

	// Scheduled export
	scheduler *gocron.Scheduler
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
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

	// Initialize stores
	app.vocabularyStore = postgres.NewPostgresVocabularyStore(db)
	app.userStatsStore = postgres.NewPostgresUserStatsStore(db)
	app.activityStore = postgres.NewPostgresActivityStore(db)
	app.achievementStore = postgres.NewPostgresAchievementStore(db)

	// Seed the achievement catalog so unlock evaluation always sees the
	// full set. Existing rows keep their progress.
	if err := app.achievementStore.Seed(ctx, achievements.DefaultCatalog()); err != nil {
		return nil, fmt.Errorf("failed to seed achievements: %w", err)
	}

	// Initialize the SRS service with the configured tuning
	app.srsService = srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		MinEaseFactor:          cfg.Review.MinEaseFactor,
		MaxEaseFactor:          cfg.Review.MaxEaseFactor,
		GraduatingIntervalDays: cfg.Review.GraduatingIntervalDays,
		MasteryThresholdDays:   cfg.Review.MasteryThresholdDays,
	}))

	// Initialize event emitter
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)

	// Initialize progress service
	app.progressService = progress.NewProgressService(
		db,
		app.vocabularyStore,
		app.userStatsStore,
		app.activityStore,
		app.achievementStore,
		app.srsService,
		app.eventEmitter,
		logger,
	)

	// Create the conversation reply generator. Without an API key the
	// conversation service runs entirely on scripted replies.
	if cfg.LLM.GeminiAPIKey != "" {
		generator, err := gemini.NewReplyGenerator(
			ctx,
			logger.With(slog.String("component", "reply_generator")),
			cfg.LLM,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize reply generator: %w", err)
		}
		app.generator = generator
		logger.Info("conversation reply generator initialized",
			slog.String("model", cfg.LLM.ModelName))
	} else {
		logger.Info("no LLM API key configured, conversations run on scripted replies")
	}

	// Initialize conversation service
	app.conversationService = conversation.NewConversationService(
		app.generator,
		app.progressService,
		logger,
	)

	// Initialize analytics and the stats exporter
	app.analyticsService = analytics.NewService(
		app.vocabularyStore,
		app.userStatsStore,
		app.activityStore,
		app.achievementStore,
		logger,
	)
	app.exporter = analytics.NewFileExporter(app.analyticsService, cfg.Export.Directory, logger)

	// Re-export the snapshot whenever a progress event lands, so the file
	// on disk never trails the database by more than one event.
	if emitter, ok := app.eventEmitter.(*events.InMemoryEventEmitter); ok {
		emitter.RegisterHandler(analytics.NewExportHandler(app.exporter, logger))
	} else {
		return nil, fmt.Errorf("unexpected event emitter type, cannot register export handler")
	}

	// Schedule the daily export as a backstop for days without activity
	if err := app.setupExportSchedule(); err != nil {
		return nil, fmt.Errorf("failed to schedule daily export: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// setupExportSchedule starts the background scheduler that writes the daily
// stats snapshot at the configured time.
func (app *application) setupExportSchedule() error {
	scheduler := gocron.NewScheduler(time.UTC)

	_, err := scheduler.Every(1).Day().At(app.config.Export.DailyAt).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.exporter.Export(ctx, time.Now().UTC()); err != nil {
			app.logger.Error("scheduled stats export failed",
				slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return err
	}

	scheduler.StartAsync()
	app.scheduler = scheduler

	app.logger.Info("daily stats export scheduled",
		slog.String("at", app.config.Export.DailyAt),
		slog.String("directory", app.config.Export.Directory))
	return nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection",
				slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
