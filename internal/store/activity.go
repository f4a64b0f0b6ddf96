package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/lernbuddy/internal/domain"
)

// ActivityStore defines the interface for the daily activity ledger.
type ActivityStore interface {
	// Record adds the deltas to the record for the given calendar day,
	// creating the record with zero counters first if the day is new. The
	// Active flag is recomputed from the resulting totals on every call.
	// This layer does not deduplicate: callers record each physical activity
	// exactly once.
	Record(ctx context.Context, date time.Time, deltas domain.ActivityDeltas) (*domain.DailyActivityRecord, error)

	// Get returns the record for a calendar day.
	// Returns ErrActivityNotFound if no activity was recorded that day.
	Get(ctx context.Context, date time.Time) (*domain.DailyActivityRecord, error)

	// GetRange returns records with from <= date <= to, ascending by date.
	// Days without activity have no record.
	GetRange(ctx context.Context, from, to time.Time) ([]*domain.DailyActivityRecord, error)

	// ActiveDays returns the set of active calendar days at or before upTo,
	// keyed by UTC midnight. Used by the streak recomputation.
	ActiveDays(ctx context.Context, upTo time.Time) (map[time.Time]bool, error)

	// WithTx returns an ActivityStore bound to the provided transaction.
	WithTx(tx *sql.Tx) ActivityStore
}
