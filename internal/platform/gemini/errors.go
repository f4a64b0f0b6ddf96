package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrEmptyMessage is returned when the learner's message is empty.
	ErrEmptyMessage = errors.New("message cannot be empty")
)
