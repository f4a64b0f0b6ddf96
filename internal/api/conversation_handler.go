package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/lernbuddy/internal/api/shared"
	"github.com/phrazzld/lernbuddy/internal/platform/logger"
	"github.com/phrazzld/lernbuddy/internal/service/conversation"
)

// ScenariosResponse is the payload for a scenario listing.
type ScenariosResponse struct {
	Scenarios []conversation.Scenario `json:"scenarios"`
	Count     int                     `json:"count"`
}

// StartConversationRequest represents the request body for starting a
// roleplay conversation.
type StartConversationRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// SendMessageRequest represents the request body for a learner message.
type SendMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

// MessageResponse returns the partner's reply together with the updated
// conversation state.
type MessageResponse struct {
	Reply        string                     `json:"reply"`
	Conversation *conversation.Conversation `json:"conversation"`
}

// ConversationHandler handles roleplay conversation HTTP requests
type ConversationHandler struct {
	conversationService conversation.ConversationService
	logger              *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(
	conversationService conversation.ConversationService,
	logger *slog.Logger,
) *ConversationHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ConversationHandler")
	}

	return &ConversationHandler{
		conversationService: conversationService,
		logger:              logger.With(slog.String("component", "conversation_handler")),
		now:                 func() time.Time { return time.Now().UTC() },
	}
}

// ListScenarios handles GET /conversations/scenarios requests.
func (h *ConversationHandler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	scenarios := h.conversationService.ListScenarios()

	log.Debug("listed scenarios", slog.Int("count", len(scenarios)))
	shared.RespondWithJSON(w, r, http.StatusOK, ScenariosResponse{
		Scenarios: scenarios,
		Count:     len(scenarios),
	})
}

// StartConversation handles POST /conversations requests.
// The returned conversation already contains the partner's opening line.
func (h *ConversationHandler) StartConversation(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req StartConversationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	conv, err := h.conversationService.Start(r.Context(), req.ScenarioID, h.now())
	if err != nil {
		respondServiceError(w, r, err, "Failed to start conversation")
		return
	}

	log.Debug("started conversation",
		slog.String("conversation_id", conv.ID.String()),
		slog.String("scenario_id", req.ScenarioID))
	shared.RespondWithJSON(w, r, http.StatusCreated, conv)
}

// SendMessage handles POST /conversations/{id}/messages requests.
// It submits the learner's message and returns the partner's reply. When the
// language model is unavailable the reply comes from the scenario's script;
// the response's conversation state reports which mode is active.
func (h *ConversationHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	conversationID, ok := h.parseConversationID(w, r, log)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	conv, reply, err := h.conversationService.Reply(r.Context(), conversationID, req.Message, h.now())
	if err != nil {
		respondServiceError(w, r, err, "Failed to send message")
		return
	}

	log.Debug("exchanged conversation turn",
		slog.String("conversation_id", conversationID.String()),
		slog.Bool("scripted", conv.Scripted))
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{
		Reply:        reply,
		Conversation: conv,
	})
}

// EndConversation handles POST /conversations/{id}/end requests.
// It finishes the conversation and grants the per-minute reward for the time
// spent talking.
func (h *ConversationHandler) EndConversation(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	conversationID, ok := h.parseConversationID(w, r, log)
	if !ok {
		return
	}

	summary, err := h.conversationService.End(r.Context(), conversationID, h.now())
	if err != nil {
		respondServiceError(w, r, err, "Failed to end conversation")
		return
	}

	log.Debug("ended conversation",
		slog.String("conversation_id", conversationID.String()),
		slog.Int("minutes", summary.Minutes),
		slog.Int("xp_gained", summary.XPGained))
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// parseConversationID extracts and parses the conversation ID from the URL
// path, writing the error response itself when the ID is missing or invalid.
func (h *ConversationHandler) parseConversationID(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
) (uuid.UUID, bool) {
	pathID := chi.URLParam(r, "id")
	if pathID == "" {
		log.Warn("conversation ID not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Conversation ID is required")
		return uuid.Nil, false
	}

	conversationID, err := uuid.Parse(pathID)
	if err != nil {
		log.Warn("invalid conversation ID format", slog.String("conversation_id", pathID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid conversation ID format")
		return uuid.Nil, false
	}

	return conversationID, true
}
