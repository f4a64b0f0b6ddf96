package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lernbuddy/internal/domain"
)

// VocabularyCounts aggregates store-wide vocabulary statistics for the
// dashboard projection and achievement evaluation.
type VocabularyCounts struct {
	TotalWords    int
	WordsLearned  int // items seen at least once or explicitly learned
	MasteredCount int
	TotalReviews  int
	TotalCorrect  int
	ByLevel       map[domain.CEFRLevel]int
}

// AccuracyPercentage returns the store-wide review accuracy.
func (c VocabularyCounts) AccuracyPercentage() float64 {
	if c.TotalReviews == 0 {
		return 0
	}
	return float64(c.TotalCorrect) / float64(c.TotalReviews) * 100
}

// VocabularyStore defines the interface for vocabulary persistence.
type VocabularyStore interface {
	// Upsert inserts the item or, when a row with the same (word, cefr_level)
	// already exists, refreshes its descriptive fields while leaving the
	// scheduling state untouched. Used by the import path.
	Upsert(ctx context.Context, item *domain.VocabularyItem) error

	// GetByID retrieves a vocabulary item by its surrogate ID.
	// Returns ErrVocabularyNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VocabularyItem, error)

	// GetForUpdate retrieves an item with a row-level lock for use inside a
	// transaction that will update it.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.VocabularyItem, error)

	// Update persists an item's full state after a scheduling transition.
	// Returns ErrVocabularyNotFound if the item does not exist.
	Update(ctx context.Context, item *domain.VocabularyItem) error

	// GetDueReviews returns unmastered items whose next review date is at or
	// before now, most overdue first.
	GetDueReviews(ctx context.Context, now time.Time, limit int) ([]*domain.VocabularyItem, error)

	// GetNewWords returns never-seen items for a CEFR level, oldest first.
	GetNewWords(ctx context.Context, level domain.CEFRLevel, limit int) ([]*domain.VocabularyItem, error)

	// Counts returns aggregate vocabulary statistics.
	Counts(ctx context.Context) (VocabularyCounts, error)

	// ReviewForecast returns, for each of the next days starting at from,
	// the number of unmastered items scheduled for that day.
	ReviewForecast(ctx context.Context, from time.Time, days int) (map[time.Time]int, error)

	// WithTx returns a VocabularyStore bound to the provided transaction.
	WithTx(tx *sql.Tx) VocabularyStore
}
