package achievements

import (
	"time"

	"github.com/phrazzld/lernbuddy/internal/domain"
)

// Snapshot carries the aggregated metrics achievement requirements are
// measured against. The evaluation reads it and never writes back, keeping
// the dependency one-directional.
type Snapshot struct {
	StreakDays          int
	WordsLearned        int
	TotalSecondsStudied int
	PerfectScores       int
	SessionsCompleted   int
}

// progressFor maps an achievement's category onto its source metric.
func progressFor(category domain.AchievementCategory, snap Snapshot) int {
	switch category {
	case domain.AchievementCategoryStreak:
		return snap.StreakDays
	case domain.AchievementCategoryVocabulary:
		return snap.WordsLearned
	case domain.AchievementCategoryStudyTime:
		return snap.TotalSecondsStudied / 60
	case domain.AchievementCategoryPerfect:
		return snap.PerfectScores
	case domain.AchievementCategorySessions:
		return snap.SessionsCompleted
	default:
		return 0
	}
}

// Evaluate updates progress on every locked achievement and unlocks the ones
// whose requirement is met, returning the newly unlocked achievements in
// catalog order. Already-unlocked achievements are skipped entirely, which
// makes repeated evaluation with an unchanged snapshot a no-op: nothing is
// re-emitted and no reward is granted twice.
//
// The caller is responsible for persisting the mutated achievements and for
// feeding each returned XPReward into the XP engine within the same
// transaction as the triggering event.
func Evaluate(all []*domain.Achievement, snap Snapshot, now time.Time) []*domain.Achievement {
	var unlocked []*domain.Achievement

	for _, a := range all {
		if a.Unlocked() {
			continue
		}

		progress := progressFor(a.Category, snap)
		a.AdvanceProgress(progress)

		if a.Progress >= a.Requirement {
			if err := a.Unlock(now); err != nil {
				continue
			}
			unlocked = append(unlocked, a)
		}
	}

	return unlocked
}
