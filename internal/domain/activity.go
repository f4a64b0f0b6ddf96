package domain

import "time"

// MinimumActiveSeconds is the study time a calendar day must accumulate
// before it counts toward the streak.
const MinimumActiveSeconds = 600

// DailyActivityRecord aggregates one calendar day of study. Identity is the
// Date (UTC midnight, unique per day). Records are created lazily on the
// first activity of a day and only ever have deltas added; past dates are
// never rewritten.
type DailyActivityRecord struct {
	Date               time.Time `json:"date"` // UTC midnight
	TotalSeconds       int       `json:"total_seconds"`
	XPEarned           int       `json:"xp_earned"`
	WordsLearned       int       `json:"words_learned"`
	ExercisesCompleted int       `json:"exercises_completed"`
	SessionsCount      int       `json:"sessions_count"`
	Active             bool      `json:"active"` // TotalSeconds >= MinimumActiveSeconds
}

// ActivityDeltas is one event's contribution to a day's ledger record.
// All fields must be non-negative.
type ActivityDeltas struct {
	Seconds   int
	XP        int
	Words     int
	Exercises int
	Sessions  int
}

// Validate rejects negative deltas; the ledger is append-only.
func (d ActivityDeltas) Validate() error {
	if d.Seconds < 0 || d.XP < 0 || d.Words < 0 || d.Exercises < 0 || d.Sessions < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// DateOnly truncates a timestamp to its UTC calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
