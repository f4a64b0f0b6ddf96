package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/lernbuddy/internal/api/shared"
	"github.com/phrazzld/lernbuddy/internal/domain"
	"github.com/phrazzld/lernbuddy/internal/service/conversation"
	"github.com/phrazzld/lernbuddy/internal/service/progress"
	"github.com/phrazzld/lernbuddy/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, progress.ErrItemNotFound),
		errors.Is(err, conversation.ErrScenarioNotFound),
		errors.Is(err, conversation.ErrConversationNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, progress.ErrAlreadyLearned),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, progress.ErrInvalidOutcome),
		errors.Is(err, progress.ErrInvalidDuration),
		errors.Is(err, conversation.ErrEmptyMessage),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, progress.ErrItemNotFound):
		return "Vocabulary item not found"

	case errors.Is(err, conversation.ErrScenarioNotFound):
		return "Scenario not found"

	case errors.Is(err, conversation.ErrConversationNotFound):
		return "Conversation not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, progress.ErrAlreadyLearned):
		return "Word has already been learned"

	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, progress.ErrInvalidOutcome):
		return "Outcome must be one of: again, hard, good, easy"

	case errors.Is(err, progress.ErrInvalidDuration):
		return "Duration must not be negative"

	case errors.Is(err, conversation.ErrEmptyMessage):
		return "Message cannot be empty"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// RespondServiceError is the common error path for handlers: map the error,
// sanitize the message, log the details.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	statusCode := MapErrorToStatusCode(err)
	safeMessage := GetSafeErrorMessage(err)
	if statusCode == http.StatusInternalServerError && fallbackMessage != "" {
		safeMessage = fallbackMessage
	}
	shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'SubmitReviewRequest.Outcome' Error:Field
	// validation for 'Outcome' failed on the 'oneof' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				return fmt.Sprintf("Invalid %s", fieldParts[1])
			}
		}
	}

	return "Validation error"
}
