// Package analytics builds read-only projections of the learner's progress:
// the dashboard snapshot served over the API and the JSON export written for
// external dashboards.
package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/phrazzld/lernbuddy/internal/domain"
	"github.com/phrazzld/lernbuddy/internal/domain/xp"
	"github.com/phrazzld/lernbuddy/internal/platform/logger"
	"github.com/phrazzld/lernbuddy/internal/store"
)

// activityWindowDays is how much daily history the snapshot carries.
const activityWindowDays = 30

// forecastDays is how far ahead the review forecast looks.
const forecastDays = 7

// Overview aggregates the headline numbers.
type Overview struct {
	TotalXP           int              `json:"total_xp"`
	Level             xp.LevelInfo     `json:"level"`
	CEFRLevel         domain.CEFRLevel `json:"cefr_level"`
	StreakDays        int              `json:"streak_days"`
	LongestStreak     int              `json:"longest_streak"`
	TotalHours        float64          `json:"total_hours"`
	SessionsCompleted int              `json:"sessions_completed"`
	PerfectScores     int              `json:"perfect_scores"`
	LastActivityDate  *time.Time       `json:"last_activity_date,omitempty"`
}

// VocabularyBreakdown summarizes the word list and review history.
type VocabularyBreakdown struct {
	TotalWords         int                      `json:"total_words"`
	WordsLearned       int                      `json:"words_learned"`
	MasteredCount      int                      `json:"mastered_count"`
	TotalReviews       int                      `json:"total_reviews"`
	AccuracyPercentage float64                  `json:"accuracy_percentage"`
	ByLevel            map[domain.CEFRLevel]int `json:"by_level"`
	ReviewForecast     []ForecastDay            `json:"review_forecast"`
}

// ForecastDay is one day of the upcoming review load.
type ForecastDay struct {
	Date     string `json:"date"`
	DueCount int    `json:"due_count"`
}

// DayActivity is one day of the activity window, export-shaped.
type DayActivity struct {
	Date               string `json:"date"`
	TotalSeconds       int    `json:"total_seconds"`
	XPEarned           int    `json:"xp_earned"`
	WordsLearned       int    `json:"words_learned"`
	ExercisesCompleted int    `json:"exercises_completed"`
	SessionsCount      int    `json:"sessions_count"`
	Active             bool   `json:"active"`
}

// UnlockedAchievement is the export shape of an earned achievement.
type UnlockedAchievement struct {
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	XPReward    int       `json:"xp_reward"`
	UnlockedAt  time.Time `json:"unlocked_at"`
}

// Snapshot is the full progress projection.
type Snapshot struct {
	GeneratedAt   time.Time             `json:"generated_at"`
	Overview      Overview              `json:"overview"`
	Vocabulary    VocabularyBreakdown   `json:"vocabulary"`
	DailyActivity []DayActivity         `json:"daily_activity"`
	Achievements  []UnlockedAchievement `json:"achievements"`
	Milestones    []string              `json:"milestones"`
}

// Service assembles snapshots from the read side of the stores.
type Service struct {
	vocabStore       store.VocabularyStore
	statsStore       store.UserStatsStore
	activityStore    store.ActivityStore
	achievementStore store.AchievementStore
	logger           *slog.Logger
}

// NewService creates a snapshot service.
func NewService(
	vocabStore store.VocabularyStore,
	statsStore store.UserStatsStore,
	activityStore store.ActivityStore,
	achievementStore store.AchievementStore,
	logger *slog.Logger,
) *Service {
	if vocabStore == nil {
		panic("vocabStore cannot be nil")
	}
	if statsStore == nil {
		panic("statsStore cannot be nil")
	}
	if activityStore == nil {
		panic("activityStore cannot be nil")
	}
	if achievementStore == nil {
		panic("achievementStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		vocabStore:       vocabStore,
		statsStore:       statsStore,
		activityStore:    activityStore,
		achievementStore: achievementStore,
		logger:           logger.With(slog.String("component", "analytics")),
	}
}

// Snapshot assembles the full progress projection as of now.
func (s *Service) Snapshot(ctx context.Context, now time.Time) (*Snapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	stats, err := s.statsStore.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load user stats: %w", err)
	}

	counts, err := s.vocabStore.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count vocabulary: %w", err)
	}

	forecast, err := s.vocabStore.ReviewForecast(ctx, now, forecastDays)
	if err != nil {
		return nil, fmt.Errorf("failed to build review forecast: %w", err)
	}

	from := now.AddDate(0, 0, -(activityWindowDays - 1))
	records, err := s.activityStore.GetRange(ctx, from, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity window: %w", err)
	}

	unlocked, err := s.achievementStore.GetUnlocked(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}

	snap := &Snapshot{
		GeneratedAt: now.UTC(),
		Overview: Overview{
			TotalXP:           stats.TotalXP,
			Level:             xp.InfoForXP(stats.TotalXP),
			CEFRLevel:         stats.CurrentCEFRLevel,
			StreakDays:        stats.StreakDays,
			LongestStreak:     stats.LongestStreak,
			TotalHours:        roundHours(stats.TotalSecondsStudied),
			SessionsCompleted: stats.SessionsCompleted,
			PerfectScores:     stats.PerfectScores,
			LastActivityDate:  stats.LastActivityDate,
		},
		Vocabulary: VocabularyBreakdown{
			TotalWords:         counts.TotalWords,
			WordsLearned:       counts.WordsLearned,
			MasteredCount:      counts.MasteredCount,
			TotalReviews:       counts.TotalReviews,
			AccuracyPercentage: counts.AccuracyPercentage(),
			ByLevel:            counts.ByLevel,
			ReviewForecast:     buildForecast(now, forecast),
		},
		DailyActivity: buildActivityWindow(records),
		Achievements:  buildUnlocked(unlocked),
		Milestones:    buildMilestones(stats, counts),
	}

	log.Debug("snapshot assembled",
		slog.Int("total_xp", snap.Overview.TotalXP),
		slog.Int("activity_days", len(snap.DailyActivity)),
		slog.Int("unlocked_achievements", len(snap.Achievements)))

	return snap, nil
}

// roundHours converts accumulated study seconds to hours with one decimal.
func roundHours(seconds int) float64 {
	return math.Round(float64(seconds)/3600*10) / 10
}

func buildForecast(now time.Time, due map[time.Time]int) []ForecastDay {
	out := make([]ForecastDay, 0, forecastDays)
	day := domain.DateOnly(now)
	for i := 0; i < forecastDays; i++ {
		out = append(out, ForecastDay{
			Date:     day.Format(time.DateOnly),
			DueCount: due[day],
		})
		day = day.AddDate(0, 0, 1)
	}
	return out
}

func buildActivityWindow(records []*domain.DailyActivityRecord) []DayActivity {
	out := make([]DayActivity, 0, len(records))
	for _, r := range records {
		out = append(out, DayActivity{
			Date:               r.Date.Format(time.DateOnly),
			TotalSeconds:       r.TotalSeconds,
			XPEarned:           r.XPEarned,
			WordsLearned:       r.WordsLearned,
			ExercisesCompleted: r.ExercisesCompleted,
			SessionsCount:      r.SessionsCount,
			Active:             r.Active,
		})
	}
	return out
}

func buildUnlocked(achievements []*domain.Achievement) []UnlockedAchievement {
	out := make([]UnlockedAchievement, 0, len(achievements))
	for _, a := range achievements {
		if a.UnlockedAt == nil {
			continue
		}
		out = append(out, UnlockedAchievement{
			Name:        a.Name,
			Title:       a.Title,
			Description: a.Description,
			Icon:        a.Icon,
			XPReward:    a.XPReward,
			UnlockedAt:  *a.UnlockedAt,
		})
	}
	return out
}

func buildMilestones(stats *domain.UserStats, counts store.VocabularyCounts) []string {
	var out []string

	for _, days := range []int{7, 30, 100} {
		if stats.LongestStreak >= days {
			out = append(out, fmt.Sprintf("%d-day streak reached", days))
		}
	}

	for _, level := range []int{10, 25, 45, 70} {
		if stats.CurrentLevel >= level {
			out = append(out, fmt.Sprintf("Level %d reached", level))
		}
	}

	for _, n := range []int{10, 100, 500, 2000} {
		if counts.WordsLearned >= n {
			out = append(out, fmt.Sprintf("%d words learned", n))
		}
	}

	if counts.MasteredCount > 0 {
		out = append(out, fmt.Sprintf("%d words mastered", counts.MasteredCount))
	}

	return out
}
