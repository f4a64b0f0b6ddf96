// Package achievements holds the achievement catalog and the evaluation
// engine that unlocks achievements against a stats snapshot.
package achievements

import "github.com/phrazzld/lernbuddy/internal/domain"

// DefaultCatalog returns the stock achievement definitions, all locked.
// Requirements are measured in the unit of their category: days for streaks,
// words for vocabulary, minutes for study time, counts otherwise.
func DefaultCatalog() []*domain.Achievement {
	return []*domain.Achievement{
		{
			Name: "first_step", Title: "First Step",
			Description: "Complete your first study session",
			Category:    domain.AchievementCategorySessions,
			Requirement: 1, XPReward: 50, Icon: "🎯",
		},

		// Streaks
		{
			Name: "week_warrior", Title: "Week Warrior",
			Description: "Maintain a 7-day streak",
			Category:    domain.AchievementCategoryStreak,
			Requirement: 7, XPReward: 100, Icon: "🔥",
		},
		{
			Name: "month_master", Title: "Month Master",
			Description: "Maintain a 30-day streak",
			Category:    domain.AchievementCategoryStreak,
			Requirement: 30, XPReward: 300, Icon: "💪",
		},
		{
			Name: "century_scholar", Title: "Century Scholar",
			Description: "Maintain a 100-day streak",
			Category:    domain.AchievementCategoryStreak,
			Requirement: 100, XPReward: 1000, Icon: "👑",
		},

		// Vocabulary
		{
			Name: "wordsmith_100", Title: "Wordsmith",
			Description: "Learn 100 words",
			Category:    domain.AchievementCategoryVocabulary,
			Requirement: 100, XPReward: 150, Icon: "📚",
		},
		{
			Name: "wordsmith_500", Title: "Word Master",
			Description: "Learn 500 words",
			Category:    domain.AchievementCategoryVocabulary,
			Requirement: 500, XPReward: 400, Icon: "📖",
		},
		{
			Name: "wordsmith_2000", Title: "Word Virtuoso",
			Description: "Learn 2000 words",
			Category:    domain.AchievementCategoryVocabulary,
			Requirement: 2000, XPReward: 1500, Icon: "🎓",
		},

		// Study time (minutes)
		{
			Name: "dedicated_10", Title: "Dedicated Learner",
			Description: "Study for 10 hours total",
			Category:    domain.AchievementCategoryStudyTime,
			Requirement: 600, XPReward: 100, Icon: "📅",
		},
		{
			Name: "dedicated_50", Title: "Serious Student",
			Description: "Study for 50 hours total",
			Category:    domain.AchievementCategoryStudyTime,
			Requirement: 3000, XPReward: 400, Icon: "⏰",
		},
		{
			Name: "dedicated_200", Title: "Learning Machine",
			Description: "Study for 200 hours total",
			Category:    domain.AchievementCategoryStudyTime,
			Requirement: 12000, XPReward: 1500, Icon: "🤖",
		},
		{
			Name: "dedicated_500", Title: "Ultimate Scholar",
			Description: "Study for 500 hours total",
			Category:    domain.AchievementCategoryStudyTime,
			Requirement: 30000, XPReward: 3000, Icon: "🌟",
		},

		// Perfect scores
		{
			Name: "perfectionist_10", Title: "Perfectionist",
			Description: "Get 10 perfect scores",
			Category:    domain.AchievementCategoryPerfect,
			Requirement: 10, XPReward: 150, Icon: "⭐",
		},
		{
			Name: "perfectionist_50", Title: "Flawless Master",
			Description: "Get 50 perfect scores",
			Category:    domain.AchievementCategoryPerfect,
			Requirement: 50, XPReward: 500, Icon: "✨",
		},
		{
			Name: "perfectionist_100", Title: "Perfect Legend",
			Description: "Get 100 perfect scores",
			Category:    domain.AchievementCategoryPerfect,
			Requirement: 100, XPReward: 1000, Icon: "💫",
		},
	}
}
