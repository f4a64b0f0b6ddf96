package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidReviewOutcome is returned when a review outcome is not one of
	// again, hard, good, easy.
	ErrInvalidReviewOutcome = errors.New("invalid review outcome")

	// ErrInvalidCEFRLevel is returned when a CEFR level is not one of A1, A2, B1, B2.
	ErrInvalidCEFRLevel = errors.New("invalid CEFR level")

	// ErrEmptyWord is returned when a vocabulary item has no word text.
	ErrEmptyWord = errors.New("word cannot be empty")

	// ErrEmptyTranslation is returned when a vocabulary item has no translation.
	ErrEmptyTranslation = errors.New("translation cannot be empty")

	// ErrNegativeAmount is returned when a counter delta or XP amount is negative.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrFutureDate is returned when an activity date lies beyond "now".
	ErrFutureDate = errors.New("date cannot be in the future")

	// ErrInvalidInterval is returned when an interval is not a positive number of days.
	ErrInvalidInterval = errors.New("interval must be at least 1 day")

	// ErrInvalidEaseFactor is returned when an ease factor drops to 1.0 or below.
	ErrInvalidEaseFactor = errors.New("ease factor must be greater than 1.0")
)
