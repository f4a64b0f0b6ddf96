package domain

import "time"

// UserStats is the single aggregate row describing the learner's overall
// progress. Exactly one row exists (the storage layer enforces the singleton
// via a fixed primary key). CurrentLevel is a cache of the level derived from
// TotalXP; the xp package is the only writer of the pair and keeps them
// consistent.
type UserStats struct {
	TotalXP             int        `json:"total_xp"`
	CurrentLevel        int        `json:"current_level"`
	StreakDays          int        `json:"streak_days"`
	LongestStreak       int        `json:"longest_streak"`
	LastActivityDate    *time.Time `json:"last_activity_date,omitempty"` // calendar date, UTC midnight
	TotalSecondsStudied int        `json:"total_seconds_studied"`
	CurrentCEFRLevel    CEFRLevel  `json:"current_cefr_level"`
	SessionsCompleted   int        `json:"sessions_completed"`
	PerfectScores       int        `json:"perfect_scores"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// NewUserStats returns the default stats for a fresh learner profile.
func NewUserStats() *UserStats {
	now := time.Now().UTC()
	return &UserStats{
		TotalXP:          0,
		CurrentLevel:     1,
		CurrentCEFRLevel: CEFRLevelA1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// ActiveOn reports whether the learner's last recorded activity falls on the
// given calendar day. Used to guard the once-per-day login bonus.
func (s *UserStats) ActiveOn(day time.Time) bool {
	if s.LastActivityDate == nil {
		return false
	}
	y1, m1, d1 := s.LastActivityDate.UTC().Date()
	y2, m2, d2 := day.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
