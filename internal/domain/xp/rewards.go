package xp

// Fixed XP rewards per action. These are product-tuning constants; the
// leveling invariants do not depend on them.
const (
	RewardReviewCorrect   = 5
	RewardReviewIncorrect = 2
	RewardNewWord         = 10
	RewardDailyLogin      = 25 // at most once per calendar day

	// Conversation practice is rewarded per minute of dialogue.
	RewardConversationPerMinute = 8
)

// Streak milestone bonuses, granted when the streak first reaches the
// milestone length.
const (
	StreakMilestone7Days   = 50
	StreakMilestone30Days  = 200
	StreakMilestone100Days = 500
)

// StreakMilestoneBonus returns the bonus earned by moving from oldStreak to
// newStreak, summing every milestone crossed in between.
func StreakMilestoneBonus(oldStreak, newStreak int) int {
	bonus := 0
	milestones := []struct {
		days   int
		reward int
	}{
		{7, StreakMilestone7Days},
		{30, StreakMilestone30Days},
		{100, StreakMilestone100Days},
	}

	for _, m := range milestones {
		if oldStreak < m.days && newStreak >= m.days {
			bonus += m.reward
		}
	}

	return bonus
}

// ReviewReward returns the XP for a single vocabulary review.
func ReviewReward(correct bool) int {
	if correct {
		return RewardReviewCorrect
	}
	return RewardReviewIncorrect
}
