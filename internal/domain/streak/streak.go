// Package streak derives the current and longest consecutive-day study
// streaks from the daily activity ledger.
package streak

import (
	"time"

	"github.com/phrazzld/lernbuddy/internal/domain"
)

// Result holds a recomputed streak pair. Longest is monotone non-decreasing
// across recomputations; callers persist it back to UserStats.
type Result struct {
	Current int
	Longest int
}

// Recompute walks backward from today over the set of active calendar days.
//
// A streak is not broken until a full calendar day passes with no activity:
// if today has no active record yet, an active yesterday still holds the run
// provisionally, and today's later activity will extend it. Only when neither
// today nor yesterday is active does the current streak reset to 0.
//
// activeDays carries the Active flag per calendar day (UTC midnight keys, as
// produced by domain.DateOnly); missing days count as inactive.
func Recompute(today time.Time, activeDays map[time.Time]bool, previousLongest int) Result {
	day := domain.DateOnly(today)

	if !activeDays[day] {
		// Provisional hold: anchor the run on yesterday if it was active.
		day = day.AddDate(0, 0, -1)
		if !activeDays[day] {
			return Result{Current: 0, Longest: previousLongest}
		}
	}

	current := 0
	for activeDays[day] {
		current++
		day = day.AddDate(0, 0, -1)
	}

	longest := previousLongest
	if current > longest {
		longest = current
	}

	return Result{Current: current, Longest: longest}
}
