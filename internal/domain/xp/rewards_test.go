package xp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/lernbuddy/internal/domain/xp"
)

func TestReviewReward(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, xp.ReviewReward(true))
	assert.Equal(t, 2, xp.ReviewReward(false))
}

func TestStreakMilestoneBonus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		oldStreak int
		newStreak int
		want      int
	}{
		{"no milestone crossed", 3, 5, 0},
		{"reaching 7 days", 6, 7, 50},
		{"holding at 7 days grants nothing", 7, 7, 0},
		{"reaching 30 days", 29, 30, 200},
		{"reaching 100 days", 99, 100, 500},
		{"recovered gap crosses two milestones", 5, 31, 250},
		{"streak reset grants nothing", 10, 0, 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, xp.StreakMilestoneBonus(tc.oldStreak, tc.newStreak))
		})
	}
}
