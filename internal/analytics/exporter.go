package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/phrazzld/lernbuddy/internal/events"
)

// FileExporter writes progress snapshots as JSON files for external
// dashboards: one dated file per day plus a rolling latest.json.
type FileExporter struct {
	snapshots *Service
	directory string
	logger    *slog.Logger
}

// NewFileExporter creates an exporter writing into the given directory.
func NewFileExporter(snapshots *Service, directory string, logger *slog.Logger) *FileExporter {
	if snapshots == nil {
		panic("snapshots cannot be nil")
	}
	if directory == "" {
		panic("directory cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FileExporter{
		snapshots: snapshots,
		directory: directory,
		logger:    logger.With(slog.String("component", "stats_exporter")),
	}
}

// Export assembles a snapshot as of now and writes it to disk.
func (e *FileExporter) Export(ctx context.Context, now time.Time) error {
	snap, err := e.snapshots.Snapshot(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to assemble snapshot: %w", err)
	}

	if err := os.MkdirAll(e.directory, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dated := filepath.Join(e.directory, fmt.Sprintf("stats_%s.json", now.UTC().Format(time.DateOnly)))
	if err := writeFileAtomic(dated, data); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	latest := filepath.Join(e.directory, "latest.json")
	if err := writeFileAtomic(latest, data); err != nil {
		return fmt.Errorf("failed to write latest export: %w", err)
	}

	e.logger.Info("stats snapshot exported",
		slog.String("file", dated),
		slog.Int("bytes", len(data)))

	return nil
}

// writeFileAtomic writes via a temp file and rename so readers never observe
// a half-written export.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ExportHandler refreshes the export whenever a learning event commits, so
// latest.json tracks the live state between scheduled runs.
type ExportHandler struct {
	exporter *FileExporter
	logger   *slog.Logger
}

// NewExportHandler creates an event handler backed by the given exporter.
func NewExportHandler(exporter *FileExporter, logger *slog.Logger) *ExportHandler {
	if exporter == nil {
		panic("exporter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ExportHandler{
		exporter: exporter,
		logger:   logger.With(slog.String("component", "export_handler")),
	}
}

// Ensure ExportHandler implements events.EventHandler interface
var _ events.EventHandler = (*ExportHandler)(nil)

// HandleEvent implements events.EventHandler.HandleEvent.
func (h *ExportHandler) HandleEvent(ctx context.Context, event *events.ProgressEvent) error {
	switch event.Type {
	case events.EventTypeReviewRecorded,
		events.EventTypeWordLearned,
		events.EventTypeSessionCompleted,
		events.EventTypeConversationEnded,
		events.EventTypeAchievementUnlocked:
	default:
		return nil
	}

	if err := h.exporter.Export(ctx, time.Now().UTC()); err != nil {
		h.logger.Error("failed to refresh export",
			slog.String("event_type", event.Type),
			slog.String("error", err.Error()))
		return err
	}

	return nil
}
