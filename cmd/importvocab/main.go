// Package main implements the vocabulary import CLI. It reads a JSON or
// XLSX word list and upserts every entry, leaving the review schedule of
// already-known words untouched.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"github.com/phrazzld/lernbuddy/internal/config"
	"github.com/phrazzld/lernbuddy/internal/platform/logger"
	"github.com/phrazzld/lernbuddy/internal/platform/postgres"
	"github.com/phrazzld/lernbuddy/internal/vocabimport"
)

func main() {
	filePath := flag.String("file", "", "path to a .json or .xlsx vocabulary file (required)")
	sheet := flag.String("sheet", "", "XLSX sheet name (defaults to the first sheet)")
	flag.Parse()

	if *filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*filePath, *sheet); err != nil {
		log.Fatalf("Import failed: %v", err)
	}
}

func run(filePath, sheet string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server.LogLevel)

	result, err := vocabimport.ParseFile(filePath, sheet)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", filePath, err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	vocabStore := postgres.NewPostgresVocabularyStore(db)

	imported := 0
	for _, item := range result.Items {
		if err := vocabStore.Upsert(ctx, item); err != nil {
			return fmt.Errorf("failed to upsert %q: %w", item.Word, err)
		}
		imported++
	}

	appLogger.Info("import completed",
		slog.String("file", filePath),
		slog.Int("imported", imported),
		slog.Int("skipped", len(result.Errors)))

	for _, msg := range result.Errors {
		appLogger.Warn("skipped entry", slog.String("reason", msg))
	}

	fmt.Printf("Imported %d words (%d skipped)\n", imported, len(result.Errors))
	return nil
}
