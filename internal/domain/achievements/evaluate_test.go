package achievements_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lernbuddy/internal/domain"
	"github.com/phrazzld/lernbuddy/internal/domain/achievements"
)

var testNow = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

func names(unlocked []*domain.Achievement) []string {
	out := make([]string, len(unlocked))
	for i, a := range unlocked {
		out[i] = a.Name
	}
	return out
}

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()

	catalog := achievements.DefaultCatalog()
	require.NotEmpty(t, catalog)

	seen := make(map[string]bool, len(catalog))
	for _, a := range catalog {
		assert.False(t, seen[a.Name], "duplicate achievement name %q", a.Name)
		seen[a.Name] = true

		assert.False(t, a.Unlocked(), "%q must start locked", a.Name)
		assert.Positive(t, a.Requirement, "%q", a.Name)
		assert.Positive(t, a.XPReward, "%q", a.Name)
	}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	t.Run("unlocks achievements whose requirement is met", func(t *testing.T) {
		t.Parallel()

		catalog := achievements.DefaultCatalog()
		unlocked := achievements.Evaluate(catalog, achievements.Snapshot{
			StreakDays:        7,
			SessionsCompleted: 1,
		}, testNow)

		assert.ElementsMatch(t, []string{"first_step", "week_warrior"}, names(unlocked))
		for _, a := range unlocked {
			assert.True(t, a.Unlocked())
			require.NotNil(t, a.UnlockedAt)
			assert.Equal(t, testNow, *a.UnlockedAt)
		}
	})

	t.Run("records partial progress without unlocking", func(t *testing.T) {
		t.Parallel()

		catalog := achievements.DefaultCatalog()
		unlocked := achievements.Evaluate(catalog, achievements.Snapshot{
			WordsLearned: 40,
		}, testNow)

		assert.Empty(t, unlocked)
		for _, a := range catalog {
			if a.Name == "wordsmith_100" {
				assert.Equal(t, 40, a.Progress)
				assert.False(t, a.Unlocked())
			}
		}
	})

	t.Run("re-evaluation is a no-op", func(t *testing.T) {
		t.Parallel()

		catalog := achievements.DefaultCatalog()
		snap := achievements.Snapshot{StreakDays: 7, SessionsCompleted: 1}

		first := achievements.Evaluate(catalog, snap, testNow)
		require.NotEmpty(t, first)

		second := achievements.Evaluate(catalog, snap, testNow.Add(time.Hour))
		assert.Empty(t, second)
	})

	t.Run("progress never moves backward", func(t *testing.T) {
		t.Parallel()

		catalog := achievements.DefaultCatalog()
		achievements.Evaluate(catalog, achievements.Snapshot{WordsLearned: 80}, testNow)
		achievements.Evaluate(catalog, achievements.Snapshot{WordsLearned: 20}, testNow)

		for _, a := range catalog {
			if a.Name == "wordsmith_100" {
				assert.Equal(t, 80, a.Progress)
			}
		}
	})

	t.Run("study time is measured in minutes", func(t *testing.T) {
		t.Parallel()

		catalog := achievements.DefaultCatalog()
		unlocked := achievements.Evaluate(catalog, achievements.Snapshot{
			TotalSecondsStudied: 600 * 60, // exactly 10 hours
		}, testNow)

		assert.Equal(t, []string{"dedicated_10"}, names(unlocked))
	})

	t.Run("several tiers can unlock at once", func(t *testing.T) {
		t.Parallel()

		catalog := achievements.DefaultCatalog()
		unlocked := achievements.Evaluate(catalog, achievements.Snapshot{
			WordsLearned: 600,
		}, testNow)

		assert.ElementsMatch(t, []string{"wordsmith_100", "wordsmith_500"}, names(unlocked))
	})
}
