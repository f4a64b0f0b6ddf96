package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/lernbuddy/internal/api"
	apiMiddleware "github.com/phrazzld/lernbuddy/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	// Create API handlers using the application's services
	reviewHandler := api.NewReviewHandler(app.progressService, app.logger)
	vocabularyHandler := api.NewVocabularyHandler(app.progressService, app.vocabularyStore, app.config.Review.NewWordsPerDay, app.logger)
	sessionHandler := api.NewSessionHandler(app.progressService, app.logger)
	statsHandler := api.NewStatsHandler(app.analyticsService, app.logger)
	conversationHandler := api.NewConversationHandler(app.conversationService, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Review endpoints
		r.Get("/reviews/due", reviewHandler.GetDueReviews)
		r.Post("/reviews", reviewHandler.SubmitReview)

		// Vocabulary endpoints
		r.Get("/vocabulary/new", vocabularyHandler.GetNewWords)
		r.Post("/vocabulary/{id}/learned", vocabularyHandler.MarkLearned)
		r.Post("/vocabulary/import", vocabularyHandler.ImportVocabulary)

		// Session endpoints
		r.Post("/sessions", sessionHandler.CompleteSession)

		// Statistics endpoint
		r.Get("/stats", statsHandler.GetStats)

		// Conversation practice endpoints
		r.Get("/conversations/scenarios", conversationHandler.ListScenarios)
		r.Post("/conversations", conversationHandler.StartConversation)
		r.Post("/conversations/{id}/messages", conversationHandler.SendMessage)
		r.Post("/conversations/{id}/end", conversationHandler.EndConversation)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
