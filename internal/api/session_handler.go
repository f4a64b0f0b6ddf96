package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/lernbuddy/internal/api/shared"
	"github.com/phrazzld/lernbuddy/internal/platform/logger"
	"github.com/phrazzld/lernbuddy/internal/service/progress"
)

// CompleteSessionRequest represents the request body for a finished study
// session. Seconds must cover only time not already reported per review.
type CompleteSessionRequest struct {
	Seconds   int  `json:"seconds"   validate:"min=0"`
	Exercises int  `json:"exercises" validate:"min=0"`
	Perfect   bool `json:"perfect"`
}

// SessionHandler handles study-session HTTP requests
type SessionHandler struct {
	progressService progress.ProgressService
	logger          *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(
	progressService progress.ProgressService,
	logger *slog.Logger,
) *SessionHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SessionHandler")
	}

	return &SessionHandler{
		progressService: progressService,
		logger:          logger.With(slog.String("component", "session_handler")),
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// CompleteSession handles POST /sessions requests.
// It records a finished study session and returns the rewards it earned,
// including any streak milestone bonus the session triggered.
func (h *SessionHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CompleteSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	result, err := h.progressService.RecordSession(
		r.Context(),
		req.Seconds,
		req.Exercises,
		req.Perfect,
		h.now(),
	)
	if err != nil {
		respondServiceError(w, r, err, "Failed to record session")
		return
	}

	log.Debug("recorded session",
		slog.Int("seconds", req.Seconds),
		slog.Int("exercises", req.Exercises),
		slog.Bool("perfect", req.Perfect),
		slog.Int("xp_gained", result.XPGained))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
