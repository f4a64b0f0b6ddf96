package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/lernbuddy/internal/analytics"
	"github.com/phrazzld/lernbuddy/internal/api/shared"
	"github.com/phrazzld/lernbuddy/internal/platform/logger"
)

// StatsHandler handles statistics HTTP requests
type StatsHandler struct {
	snapshots *analytics.Service
	logger    *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(snapshots *analytics.Service, logger *slog.Logger) *StatsHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StatsHandler")
	}

	return &StatsHandler{
		snapshots: snapshots,
		logger:    logger.With(slog.String("component", "stats_handler")),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// GetStats handles GET /stats requests.
// It assembles the full progress snapshot: XP and level, streaks, vocabulary
// breakdown per CEFR level, the recent activity window, the review forecast,
// unlocked achievements, and milestones.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	snapshot, err := h.snapshots.Snapshot(r.Context(), h.now())
	if err != nil {
		respondServiceError(w, r, err, "Failed to assemble statistics")
		return
	}

	log.Debug("assembled statistics snapshot")
	shared.RespondWithJSON(w, r, http.StatusOK, snapshot)
}
