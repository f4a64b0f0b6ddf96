package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/lernbuddy/internal/api/shared"
	"github.com/phrazzld/lernbuddy/internal/domain"
	"github.com/phrazzld/lernbuddy/internal/platform/logger"
	"github.com/phrazzld/lernbuddy/internal/service/progress"
	"github.com/phrazzld/lernbuddy/internal/store"
)

// defaultNewWordsLimit is the new-words batch size used when the handler is
// constructed without a configured daily budget.
const defaultNewWordsLimit = 5

// NewWordsResponse is the payload for a new-words listing.
type NewWordsResponse struct {
	Level string                   `json:"level"`
	Items []*domain.VocabularyItem `json:"items"`
	Count int                      `json:"count"`
}

// ImportItemRequest is one vocabulary entry in an import request.
type ImportItemRequest struct {
	Word               string `json:"word"                validate:"required"`
	Translation        string `json:"translation"         validate:"required"`
	CEFRLevel          string `json:"cefr_level"          validate:"required,oneof=A1 A2 B1 B2"`
	PartOfSpeech       string `json:"part_of_speech"`
	Gender             string `json:"gender"`
	PluralForm         string `json:"plural_form"`
	ExampleSentence    string `json:"example_sentence"`
	ExampleTranslation string `json:"example_translation"`
}

// ImportVocabularyRequest represents the request body for a vocabulary import.
type ImportVocabularyRequest struct {
	Items []ImportItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ImportVocabularyResponse reports how many entries an import processed.
type ImportVocabularyResponse struct {
	Imported int `json:"imported"`
}

// VocabularyHandler handles vocabulary-related HTTP requests
type VocabularyHandler struct {
	progressService progress.ProgressService
	vocabularyStore store.VocabularyStore
	logger          *slog.Logger

	// newWordsPerDay is the configured daily budget of new words. It is the
	// default batch size for a new-words listing and caps any requested limit.
	newWordsPerDay int

	// now is swappable for tests.
	now func() time.Time
}

// NewVocabularyHandler creates a new VocabularyHandler. newWordsPerDay below 1
// falls back to the built-in default.
func NewVocabularyHandler(
	progressService progress.ProgressService,
	vocabularyStore store.VocabularyStore,
	newWordsPerDay int,
	logger *slog.Logger,
) *VocabularyHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for VocabularyHandler")
	}
	if newWordsPerDay < 1 {
		newWordsPerDay = defaultNewWordsLimit
	}

	return &VocabularyHandler{
		progressService: progressService,
		vocabularyStore: vocabularyStore,
		logger:          logger.With(slog.String("component", "vocabulary_handler")),
		newWordsPerDay:  newWordsPerDay,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// GetNewWords handles GET /vocabulary/new requests.
// It returns never-seen items for a CEFR level, oldest first, so the learner
// can pick up fresh vocabulary at their current band.
func (h *VocabularyHandler) GetNewWords(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	level := domain.CEFRLevel(r.URL.Query().Get("level"))
	if !level.IsValid() {
		log.Warn("invalid or missing level parameter", slog.String("level", string(level)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Level must be one of A1, A2, B1, B2")
		return
	}

	limit := h.newWordsPerDay
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			log.Warn("invalid limit parameter", slog.String("limit", raw))
			shared.RespondWithError(w, r, http.StatusBadRequest, "Limit must be a positive integer")
			return
		}
		// The daily budget caps how many new words a single listing hands out.
		limit = min(parsed, h.newWordsPerDay)
	}

	items, err := h.progressService.GetNewWords(r.Context(), level, limit)
	if err != nil {
		respondServiceError(w, r, err, "Failed to get new words")
		return
	}

	log.Debug("retrieved new words",
		slog.String("level", string(level)),
		slog.Int("count", len(items)))
	shared.RespondWithJSON(w, r, http.StatusOK, NewWordsResponse{
		Level: string(level),
		Items: items,
		Count: len(items),
	})
}

// MarkLearned handles POST /vocabulary/{id}/learned requests.
// It moves a never-reviewed item into the review cycle, schedules its first
// review, and returns the rewards the new word earned.
func (h *VocabularyHandler) MarkLearned(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	pathItemID := chi.URLParam(r, "id")
	if pathItemID == "" {
		log.Warn("item ID not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Item ID is required")
		return
	}

	itemID, err := uuid.Parse(pathItemID)
	if err != nil {
		log.Warn("invalid item ID format", slog.String("item_id", pathItemID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	result, err := h.progressService.RecordNewWord(r.Context(), itemID, h.now())
	if err != nil {
		respondServiceError(w, r, err, "Failed to mark word as learned")
		return
	}

	log.Debug("marked word as learned",
		slog.String("item_id", itemID.String()),
		slog.Int("xp_gained", result.XPGained))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// ImportVocabulary handles POST /vocabulary/import requests.
// Entries are upserted by their (word, cefr_level) identity: re-importing an
// existing word refreshes its descriptive fields without touching its
// review schedule.
func (h *VocabularyHandler) ImportVocabulary(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ImportVocabularyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	imported := 0
	for _, entry := range req.Items {
		item, err := domain.NewVocabularyItem(
			entry.Word,
			entry.Translation,
			domain.CEFRLevel(entry.CEFRLevel),
		)
		if err != nil {
			respondServiceError(w, r, err, "Failed to import vocabulary")
			return
		}
		item.PartOfSpeech = entry.PartOfSpeech
		item.Gender = entry.Gender
		item.PluralForm = entry.PluralForm
		item.ExampleSentence = entry.ExampleSentence
		item.ExampleTranslation = entry.ExampleTranslation

		if err := h.vocabularyStore.Upsert(r.Context(), item); err != nil {
			respondServiceError(w, r, err, "Failed to import vocabulary")
			return
		}
		imported++
	}

	log.Info("imported vocabulary", slog.Int("count", imported))
	shared.RespondWithJSON(w, r, http.StatusCreated, ImportVocabularyResponse{Imported: imported})
}
