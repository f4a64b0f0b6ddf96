package progress

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lernbuddy/internal/domain"
	"github.com/phrazzld/lernbuddy/internal/domain/achievements"
	"github.com/phrazzld/lernbuddy/internal/domain/srs"
	"github.com/phrazzld/lernbuddy/internal/domain/streak"
	"github.com/phrazzld/lernbuddy/internal/domain/xp"
	"github.com/phrazzld/lernbuddy/internal/events"
	"github.com/phrazzld/lernbuddy/internal/platform/logger"
	"github.com/phrazzld/lernbuddy/internal/store"
)

// Verify interface compliance at compile time
var _ ProgressService = (*progressServiceImpl)(nil)

// txRunner executes a function within a database transaction. Broken out so
// tests can substitute a pass-through runner.
type txRunner func(ctx context.Context, fn store.TxFn) error

// progressServiceImpl implements the ProgressService interface.
type progressServiceImpl struct {
	vocabStore       store.VocabularyStore
	statsStore       store.UserStatsStore
	activityStore    store.ActivityStore
	achievementStore store.AchievementStore
	srsService       srs.Service
	emitter          events.EventEmitter
	runTx            txRunner
	logger           *slog.Logger
}

// NewProgressService creates a new ProgressService implementation.
func NewProgressService(
	db *sql.DB,
	vocabStore store.VocabularyStore,
	statsStore store.UserStatsStore,
	activityStore store.ActivityStore,
	achievementStore store.AchievementStore,
	srsService srs.Service,
	emitter events.EventEmitter,
	logger *slog.Logger,
) ProgressService {
	// Validate inputs
	if db == nil {
		panic("db cannot be nil")
	}
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
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if emitter == nil {
		panic("emitter cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &progressServiceImpl{
		vocabStore:       vocabStore,
		statsStore:       statsStore,
		activityStore:    activityStore,
		achievementStore: achievementStore,
		srsService:       srsService,
		emitter:          emitter,
		runTx: func(ctx context.Context, fn store.TxFn) error {
			return store.RunInTransaction(ctx, db, fn)
		},
		logger: logger.With(slog.String("component", "progress_service")),
	}
}

// eventDeltas is one learning event's contribution before the shared
// gamification pipeline runs.
type eventDeltas struct {
	baseXP    int
	seconds   int
	words     int
	exercises int
	sessions  int
	perfect   bool
}

// progressOutcome is what the shared pipeline reports back to the operation
// that triggered it.
type progressOutcome struct {
	xpGained      int
	totalXP       int
	leveledUp     bool
	newLevel      int
	streakDays    int
	streakBonus   int
	newlyUnlocked []*domain.Achievement
}

// RecordReview implements ProgressService.RecordReview.
func (s *progressServiceImpl) RecordReview(
	ctx context.Context,
	itemID uuid.UUID,
	outcome domain.ReviewOutcome,
	elapsedSeconds int,
	now time.Time,
) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !outcome.IsValid() {
		log.Warn("invalid review outcome",
			slog.String("item_id", itemID.String()),
			slog.String("outcome", string(outcome)))
		return nil, ErrInvalidOutcome
	}
	if elapsedSeconds < 0 {
		return nil, ErrInvalidDuration
	}

	var result *ReviewResult
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		vocabStore := s.vocabStore.WithTx(tx)

		item, err := vocabStore.GetForUpdate(ctx, itemID)
		if err != nil {
			if store.IsNotFoundError(err) {
				log.Warn("item not found for review",
					slog.String("item_id", itemID.String()))
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to get vocabulary item: %w", err)
		}

		next, err := s.srsService.ApplyReview(item, outcome, now)
		if err != nil {
			return fmt.Errorf("failed to calculate next review: %w", err)
		}

		if err := vocabStore.Update(ctx, next); err != nil {
			return fmt.Errorf("failed to update vocabulary item: %w", err)
		}

		out, err := s.applyProgress(ctx, tx, eventDeltas{
			baseXP:    xp.ReviewReward(outcome.Correct()),
			seconds:   elapsedSeconds,
			exercises: 1,
		}, now)
		if err != nil {
			return err
		}

		result = &ReviewResult{
			Item:          next,
			XPGained:      out.xpGained,
			TotalXP:       out.totalXP,
			LeveledUp:     out.leveledUp,
			NewLevel:      out.newLevel,
			StreakDays:    out.streakDays,
			NewlyUnlocked: out.newlyUnlocked,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, events.EventTypeReviewRecorded, map[string]any{
		"item_id":   itemID,
		"outcome":   outcome,
		"xp_gained": result.XPGained,
	})
	s.emitUnlocks(ctx, result.NewlyUnlocked)

	log.Debug("review recorded",
		slog.String("item_id", itemID.String()),
		slog.String("outcome", string(outcome)),
		slog.Int("new_interval_days", result.Item.IntervalDays),
		slog.Int("xp_gained", result.XPGained))

	return result, nil
}

// RecordNewWord implements ProgressService.RecordNewWord.
func (s *progressServiceImpl) RecordNewWord(
	ctx context.Context,
	itemID uuid.UUID,
	now time.Time,
) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var result *ReviewResult
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		vocabStore := s.vocabStore.WithTx(tx)

		item, err := vocabStore.GetForUpdate(ctx, itemID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to get vocabulary item: %w", err)
		}

		if item.TimesSeen > 0 || item.NextReviewDate != nil {
			return ErrAlreadyLearned
		}

		next, err := s.srsService.ScheduleNewWord(item, now)
		if err != nil {
			return fmt.Errorf("failed to schedule new word: %w", err)
		}

		if err := vocabStore.Update(ctx, next); err != nil {
			return fmt.Errorf("failed to update vocabulary item: %w", err)
		}

		out, err := s.applyProgress(ctx, tx, eventDeltas{
			baseXP: xp.RewardNewWord,
			words:  1,
		}, now)
		if err != nil {
			return err
		}

		result = &ReviewResult{
			Item:          next,
			XPGained:      out.xpGained,
			TotalXP:       out.totalXP,
			LeveledUp:     out.leveledUp,
			NewLevel:      out.newLevel,
			StreakDays:    out.streakDays,
			NewlyUnlocked: out.newlyUnlocked,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, events.EventTypeWordLearned, map[string]any{
		"item_id":   itemID,
		"xp_gained": result.XPGained,
	})
	s.emitUnlocks(ctx, result.NewlyUnlocked)

	log.Debug("new word learned",
		slog.String("item_id", itemID.String()),
		slog.Int("xp_gained", result.XPGained))

	return result, nil
}

// RecordSession implements ProgressService.RecordSession.
func (s *progressServiceImpl) RecordSession(
	ctx context.Context,
	seconds int,
	exercises int,
	perfect bool,
	now time.Time,
) (*SessionResult, error) {
	if seconds < 0 || exercises < 0 {
		return nil, ErrInvalidDuration
	}

	result, err := s.recordSessionEvent(ctx, eventDeltas{
		seconds:   seconds,
		exercises: exercises,
		sessions:  1,
		perfect:   perfect,
	}, now)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, events.EventTypeSessionCompleted, map[string]any{
		"seconds":   seconds,
		"exercises": exercises,
		"perfect":   perfect,
		"xp_gained": result.XPGained,
	})
	s.emitUnlocks(ctx, result.NewlyUnlocked)

	return result, nil
}

// RecordConversation implements ProgressService.RecordConversation.
func (s *progressServiceImpl) RecordConversation(
	ctx context.Context,
	minutes int,
	now time.Time,
) (*SessionResult, error) {
	if minutes < 0 {
		return nil, ErrInvalidDuration
	}

	result, err := s.recordSessionEvent(ctx, eventDeltas{
		baseXP:  minutes * xp.RewardConversationPerMinute,
		seconds: minutes * 60,
	}, now)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, events.EventTypeConversationEnded, map[string]any{
		"minutes":   minutes,
		"xp_gained": result.XPGained,
	})
	s.emitUnlocks(ctx, result.NewlyUnlocked)

	return result, nil
}

func (s *progressServiceImpl) recordSessionEvent(
	ctx context.Context,
	event eventDeltas,
	now time.Time,
) (*SessionResult, error) {
	var result *SessionResult
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		out, err := s.applyProgress(ctx, tx, event, now)
		if err != nil {
			return err
		}

		result = &SessionResult{
			XPGained:      out.xpGained,
			TotalXP:       out.totalXP,
			LeveledUp:     out.leveledUp,
			NewLevel:      out.newLevel,
			StreakDays:    out.streakDays,
			StreakBonus:   out.streakBonus,
			NewlyUnlocked: out.newlyUnlocked,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// applyProgress runs the shared gamification pipeline for one learning event,
// inside the caller's transaction: daily login bonus, activity ledger,
// streak recomputation with milestone bonuses, achievement evaluation, and
// the stats aggregate update.
func (s *progressServiceImpl) applyProgress(
	ctx context.Context,
	tx *sql.Tx,
	event eventDeltas,
	now time.Time,
) (*progressOutcome, error) {
	statsStore := s.statsStore.WithTx(tx)
	activityStore := s.activityStore.WithTx(tx)
	achievementStore := s.achievementStore.WithTx(tx)
	vocabStore := s.vocabStore.WithTx(tx)

	stats, err := statsStore.GetForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	today := domain.DateOnly(now)

	// The first event of a calendar day carries the login bonus.
	eventXP := event.baseXP
	if !stats.ActiveOn(today) {
		eventXP += xp.RewardDailyLogin
	}

	_, err = activityStore.Record(ctx, now, domain.ActivityDeltas{
		Seconds:   event.seconds,
		XP:        eventXP,
		Words:     event.words,
		Exercises: event.exercises,
		Sessions:  event.sessions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record daily activity: %w", err)
	}

	activeDays, err := activityStore.ActiveDays(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load active days: %w", err)
	}

	streakRes := streak.Recompute(now, activeDays, stats.LongestStreak)
	streakBonus := xp.StreakMilestoneBonus(stats.StreakDays, streakRes.Current)

	counts, err := vocabStore.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count vocabulary: %w", err)
	}

	snap := achievements.Snapshot{
		StreakDays:          streakRes.Current,
		WordsLearned:        counts.WordsLearned,
		TotalSecondsStudied: stats.TotalSecondsStudied + event.seconds,
		PerfectScores:       stats.PerfectScores + boolToInt(event.perfect),
		SessionsCompleted:   stats.SessionsCompleted + event.sessions,
	}

	all, err := achievementStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}

	priorProgress := make(map[string]int, len(all))
	for _, a := range all {
		if !a.Unlocked() {
			priorProgress[a.Name] = a.Progress
		}
	}

	newlyUnlocked := achievements.Evaluate(all, snap, now)

	achievementXP := 0
	for _, a := range newlyUnlocked {
		achievementXP += a.XPReward
	}

	for _, a := range all {
		prior, wasLocked := priorProgress[a.Name]
		if !wasLocked {
			continue
		}
		if a.Progress == prior && !a.Unlocked() {
			continue
		}
		if err := achievementStore.Update(ctx, a); err != nil {
			return nil, fmt.Errorf("failed to update achievement %q: %w", a.Name, err)
		}
	}

	// Bonuses land in the ledger too so the day's XP column stays the
	// source of truth for exports.
	extraXP := streakBonus + achievementXP
	if extraXP > 0 {
		_, err = activityStore.Record(ctx, now, domain.ActivityDeltas{XP: extraXP})
		if err != nil {
			return nil, fmt.Errorf("failed to record bonus XP: %w", err)
		}
	}

	addRes, err := xp.Add(stats.TotalXP, eventXP+extraXP)
	if err != nil {
		return nil, fmt.Errorf("failed to grant XP: %w", err)
	}

	stats.TotalXP = addRes.NewTotal
	stats.CurrentLevel = addRes.NewLevel
	stats.CurrentCEFRLevel = xp.CEFRForLevel(addRes.NewLevel)
	stats.StreakDays = streakRes.Current
	stats.LongestStreak = streakRes.Longest
	stats.LastActivityDate = &today
	stats.TotalSecondsStudied += event.seconds
	stats.SessionsCompleted += event.sessions
	if event.perfect {
		stats.PerfectScores++
	}

	if err := statsStore.Update(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to update user stats: %w", err)
	}

	return &progressOutcome{
		xpGained:      addRes.XPGained,
		totalXP:       addRes.NewTotal,
		leveledUp:     addRes.LeveledUp,
		newLevel:      addRes.NewLevel,
		streakDays:    streakRes.Current,
		streakBonus:   streakBonus,
		newlyUnlocked: newlyUnlocked,
	}, nil
}

// GetDueReviews implements ProgressService.GetDueReviews.
func (s *progressServiceImpl) GetDueReviews(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]*domain.VocabularyItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	items, err := s.vocabStore.GetDueReviews(ctx, now, limit)
	if err != nil {
		log.Error("failed to get due reviews", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get due reviews: %w", err)
	}
	return items, nil
}

// GetNewWords implements ProgressService.GetNewWords.
func (s *progressServiceImpl) GetNewWords(
	ctx context.Context,
	level domain.CEFRLevel,
	limit int,
) ([]*domain.VocabularyItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !level.IsValid() {
		return nil, domain.ErrInvalidCEFRLevel
	}

	items, err := s.vocabStore.GetNewWords(ctx, level, limit)
	if err != nil {
		log.Error("failed to get new words",
			slog.String("error", err.Error()),
			slog.String("cefr_level", string(level)))
		return nil, fmt.Errorf("failed to get new words: %w", err)
	}
	return items, nil
}

// emit publishes a post-commit event. Emission failures are logged, never
// surfaced: the transaction has already committed.
func (s *progressServiceImpl) emit(ctx context.Context, eventType string, payload any) {
	event, err := events.NewProgressEvent(eventType, payload)
	if err != nil {
		s.logger.Error("failed to build progress event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit progress event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
	}
}

func (s *progressServiceImpl) emitUnlocks(ctx context.Context, unlocked []*domain.Achievement) {
	for _, a := range unlocked {
		s.emit(ctx, events.EventTypeAchievementUnlocked, map[string]any{
			"name":      a.Name,
			"title":     a.Title,
			"xp_reward": a.XPReward,
		})
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
