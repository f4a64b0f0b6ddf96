package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lernbuddy/internal/api/shared"
	"github.com/phrazzld/lernbuddy/internal/domain"
	"github.com/phrazzld/lernbuddy/internal/platform/logger"
	"github.com/phrazzld/lernbuddy/internal/service/progress"
)

// defaultDueLimit caps a due-review listing when the client does not ask for
// a specific batch size.
const defaultDueLimit = 20

// DueReviewsResponse is the payload for a due-review listing.
type DueReviewsResponse struct {
	Items []*domain.VocabularyItem `json:"items"`
	Count int                      `json:"count"`
}

// SubmitReviewRequest represents the request body for recording a review.
type SubmitReviewRequest struct {
	ItemID         string `json:"item_id"         validate:"required,uuid"`
	Outcome        string `json:"outcome"         validate:"required,oneof=again hard good easy"`
	ElapsedSeconds int    `json:"elapsed_seconds" validate:"min=0"`
}

// ReviewHandler handles review-related HTTP requests
type ReviewHandler struct {
	progressService progress.ProgressService
	logger          *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(
	progressService progress.ProgressService,
	logger *slog.Logger,
) *ReviewHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		progressService: progressService,
		logger:          logger.With(slog.String("component", "review_handler")),
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// GetDueReviews handles GET /reviews/due requests.
// It returns the unmastered items whose next review date has arrived, most
// overdue first. An empty queue is a 200 with an empty list, not an error.
func (h *ReviewHandler) GetDueReviews(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	limit := defaultDueLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			log.Warn("invalid limit parameter", slog.String("limit", raw))
			shared.RespondWithError(w, r, http.StatusBadRequest, "Limit must be a positive integer")
			return
		}
		limit = parsed
	}

	items, err := h.progressService.GetDueReviews(r.Context(), h.now(), limit)
	if err != nil {
		respondServiceError(w, r, err, "Failed to get due reviews")
		return
	}

	log.Debug("retrieved due reviews", slog.Int("count", len(items)))
	shared.RespondWithJSON(w, r, http.StatusOK, DueReviewsResponse{
		Items: items,
		Count: len(items),
	})
}

// SubmitReview handles POST /reviews requests.
// It applies a review outcome to a vocabulary item, reschedules it, and
// returns the item's new state together with the rewards the review earned.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		log.Warn("invalid item ID format", slog.String("item_id", req.ItemID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	result, err := h.progressService.RecordReview(
		r.Context(),
		itemID,
		domain.ReviewOutcome(req.Outcome),
		req.ElapsedSeconds,
		h.now(),
	)
	if err != nil {
		respondServiceError(w, r, err, "Failed to record review")
		return
	}

	log.Debug("recorded review",
		slog.String("item_id", itemID.String()),
		slog.String("outcome", req.Outcome),
		slog.Int("xp_gained", result.XPGained))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
