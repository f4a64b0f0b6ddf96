package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/lernbuddy/internal/domain"
)

// AchievementStore defines the interface for achievement persistence.
type AchievementStore interface {
	// Seed inserts catalog entries that are not yet present, leaving existing
	// rows (including their progress and unlock state) untouched.
	Seed(ctx context.Context, catalog []*domain.Achievement) error

	// GetAll returns every achievement, locked and unlocked.
	GetAll(ctx context.Context) ([]*domain.Achievement, error)

	// GetUnlocked returns unlocked achievements, most recent first.
	GetUnlocked(ctx context.Context) ([]*domain.Achievement, error)

	// Update persists an achievement's progress and unlock state. The store
	// never clears unlocked_at: an unlock is permanent.
	// Returns ErrAchievementNotFound if the name is unknown.
	Update(ctx context.Context, achievement *domain.Achievement) error

	// WithTx returns an AchievementStore bound to the provided transaction.
	WithTx(tx *sql.Tx) AchievementStore
}
