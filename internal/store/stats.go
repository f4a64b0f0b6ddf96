package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/lernbuddy/internal/domain"
)

// UserStatsStore defines the interface for the singleton stats aggregate.
// The backing table holds exactly one row, enforced by a fixed primary key;
// Get creates the default row on first use.
type UserStatsStore interface {
	// Get returns the learner's stats, creating the default row if none exists.
	Get(ctx context.Context) (*domain.UserStats, error)

	// GetForUpdate returns the stats row with a row-level lock for use inside
	// a transaction that will update it.
	GetForUpdate(ctx context.Context) (*domain.UserStats, error)

	// Update persists the full stats row.
	Update(ctx context.Context, stats *domain.UserStats) error

	// WithTx returns a UserStatsStore bound to the provided transaction.
	WithTx(tx *sql.Tx) UserStatsStore
}
