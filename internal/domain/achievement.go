package domain

import (
	"fmt"
	"time"
)

// AchievementCategory names the metric an achievement's requirement is
// measured against.
type AchievementCategory string

const (
	// AchievementCategoryStreak requirements are consecutive active days.
	AchievementCategoryStreak AchievementCategory = "streak"
	// AchievementCategoryVocabulary requirements are cumulative words learned.
	AchievementCategoryVocabulary AchievementCategory = "vocabulary"
	// AchievementCategoryStudyTime requirements are cumulative minutes studied.
	AchievementCategoryStudyTime AchievementCategory = "study_time"
	// AchievementCategoryPerfect requirements are perfect-score session counts.
	AchievementCategoryPerfect AchievementCategory = "perfect"
	// AchievementCategorySessions requirements are completed session counts.
	AchievementCategorySessions AchievementCategory = "sessions"
)

// Achievement is a named, one-way unlockable. A nil UnlockedAt means the
// achievement is still locked; once set it is never cleared or changed, which
// encodes the Locked(progress) | Unlocked(at) state structurally instead of
// as an independent boolean that could drift.
type Achievement struct {
	Name        string              `json:"name"` // unique identity
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Category    AchievementCategory `json:"category"`
	Requirement int                 `json:"requirement"`
	XPReward    int                 `json:"xp_reward"`
	Icon        string              `json:"icon"`
	Progress    int                 `json:"progress"` // monotone non-decreasing
	UnlockedAt  *time.Time          `json:"unlocked_at,omitempty"`
}

// Unlocked reports whether the achievement has been earned.
func (a *Achievement) Unlocked() bool {
	return a.UnlockedAt != nil
}

// Unlock marks the achievement as earned at the given time. Unlocking twice
// is a programmer error; the evaluation loop filters unlocked achievements
// before calling this.
func (a *Achievement) Unlock(at time.Time) error {
	if a.Unlocked() {
		return fmt.Errorf("achievement %q already unlocked", a.Name)
	}
	a.Progress = a.Requirement
	t := at.UTC()
	a.UnlockedAt = &t
	return nil
}

// AdvanceProgress raises the recorded progress toward the requirement.
// Progress never decreases; stale snapshots cannot move it backward.
func (a *Achievement) AdvanceProgress(current int) {
	if current > a.Progress {
		a.Progress = current
	}
}
