package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is the generic form of the entity-specific not found errors.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would violate a uniqueness
	// constraint (e.g. importing a word that already exists at that level).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed is returned when an update matches no rows.
	ErrUpdateFailed = errors.New("update failed")

	// ErrTransactionFailed is returned when a transaction fails to begin or
	// commit. Operations inside a failed transaction are fully rolled back.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrVocabularyNotFound indicates the requested vocabulary item does not exist.
	ErrVocabularyNotFound = fmt.Errorf("%w: vocabulary item", ErrNotFound)

	// ErrUserStatsNotFound indicates the singleton stats row has not been created.
	ErrUserStatsNotFound = fmt.Errorf("%w: user stats", ErrNotFound)

	// ErrActivityNotFound indicates no ledger record exists for the requested day.
	ErrActivityNotFound = fmt.Errorf("%w: daily activity record", ErrNotFound)

	// ErrAchievementNotFound indicates the named achievement does not exist.
	ErrAchievementNotFound = fmt.Errorf("%w: achievement", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is a uniqueness-violation error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
