package progress

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lernbuddy/internal/domain"
	"github.com/phrazzld/lernbuddy/internal/domain/achievements"
	"github.com/phrazzld/lernbuddy/internal/domain/srs"
	"github.com/phrazzld/lernbuddy/internal/events"
	"github.com/phrazzld/lernbuddy/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- in-memory store fakes ---

type fakeVocabStore struct {
	items map[uuid.UUID]*domain.VocabularyItem
}

func newFakeVocabStore() *fakeVocabStore {
	return &fakeVocabStore{items: make(map[uuid.UUID]*domain.VocabularyItem)}
}

func (f *fakeVocabStore) Upsert(_ context.Context, item *domain.VocabularyItem) error {
	copied := *item
	f.items[item.ID] = &copied
	return nil
}

func (f *fakeVocabStore) GetByID(_ context.Context, id uuid.UUID) (*domain.VocabularyItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, store.ErrVocabularyNotFound
	}
	copied := *item
	return &copied, nil
}

func (f *fakeVocabStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.VocabularyItem, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeVocabStore) Update(_ context.Context, item *domain.VocabularyItem) error {
	if _, ok := f.items[item.ID]; !ok {
		return store.ErrVocabularyNotFound
	}
	copied := *item
	f.items[item.ID] = &copied
	return nil
}

func (f *fakeVocabStore) GetDueReviews(_ context.Context, now time.Time, limit int) ([]*domain.VocabularyItem, error) {
	var due []*domain.VocabularyItem
	for _, item := range f.items {
		if item.Mastered || item.NextReviewDate == nil {
			continue
		}
		if !item.NextReviewDate.After(now) {
			copied := *item
			due = append(due, &copied)
		}
		if len(due) == limit {
			break
		}
	}
	return due, nil
}

func (f *fakeVocabStore) GetNewWords(_ context.Context, level domain.CEFRLevel, limit int) ([]*domain.VocabularyItem, error) {
	var fresh []*domain.VocabularyItem
	for _, item := range f.items {
		if item.CEFRLevel == level && item.TimesSeen == 0 && item.NextReviewDate == nil {
			copied := *item
			fresh = append(fresh, &copied)
		}
		if len(fresh) == limit {
			break
		}
	}
	return fresh, nil
}

func (f *fakeVocabStore) Counts(_ context.Context) (store.VocabularyCounts, error) {
	counts := store.VocabularyCounts{ByLevel: make(map[domain.CEFRLevel]int)}
	for _, item := range f.items {
		counts.TotalWords++
		counts.ByLevel[item.CEFRLevel]++
		if item.TimesSeen > 0 || item.NextReviewDate != nil {
			counts.WordsLearned++
		}
		if item.Mastered {
			counts.MasteredCount++
		}
		counts.TotalReviews += item.TimesSeen
		counts.TotalCorrect += item.TimesCorrect
	}
	return counts, nil
}

func (f *fakeVocabStore) ReviewForecast(_ context.Context, _ time.Time, _ int) (map[time.Time]int, error) {
	return map[time.Time]int{}, nil
}

func (f *fakeVocabStore) WithTx(_ *sql.Tx) store.VocabularyStore { return f }

type fakeStatsStore struct {
	stats     *domain.UserStats
	updateErr error
}

func (f *fakeStatsStore) Get(_ context.Context) (*domain.UserStats, error) {
	if f.stats == nil {
		f.stats = domain.NewUserStats()
	}
	copied := *f.stats
	return &copied, nil
}

func (f *fakeStatsStore) GetForUpdate(ctx context.Context) (*domain.UserStats, error) {
	return f.Get(ctx)
}

func (f *fakeStatsStore) Update(_ context.Context, stats *domain.UserStats) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	copied := *stats
	f.stats = &copied
	return nil
}

func (f *fakeStatsStore) WithTx(_ *sql.Tx) store.UserStatsStore { return f }

type fakeActivityStore struct {
	records map[time.Time]*domain.DailyActivityRecord
}

func newFakeActivityStore() *fakeActivityStore {
	return &fakeActivityStore{records: make(map[time.Time]*domain.DailyActivityRecord)}
}

func (f *fakeActivityStore) Record(_ context.Context, date time.Time, deltas domain.ActivityDeltas) (*domain.DailyActivityRecord, error) {
	if err := deltas.Validate(); err != nil {
		return nil, err
	}
	day := domain.DateOnly(date)
	record, ok := f.records[day]
	if !ok {
		record = &domain.DailyActivityRecord{Date: day}
		f.records[day] = record
	}
	record.TotalSeconds += deltas.Seconds
	record.XPEarned += deltas.XP
	record.WordsLearned += deltas.Words
	record.ExercisesCompleted += deltas.Exercises
	record.SessionsCount += deltas.Sessions
	record.Active = record.TotalSeconds >= domain.MinimumActiveSeconds
	copied := *record
	return &copied, nil
}

func (f *fakeActivityStore) Get(_ context.Context, date time.Time) (*domain.DailyActivityRecord, error) {
	record, ok := f.records[domain.DateOnly(date)]
	if !ok {
		return nil, store.ErrActivityNotFound
	}
	copied := *record
	return &copied, nil
}

func (f *fakeActivityStore) GetRange(_ context.Context, from, to time.Time) ([]*domain.DailyActivityRecord, error) {
	var out []*domain.DailyActivityRecord
	for day := domain.DateOnly(from); !day.After(domain.DateOnly(to)); day = day.AddDate(0, 0, 1) {
		if record, ok := f.records[day]; ok {
			copied := *record
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeActivityStore) ActiveDays(_ context.Context, upTo time.Time) (map[time.Time]bool, error) {
	days := make(map[time.Time]bool)
	limit := domain.DateOnly(upTo)
	for day, record := range f.records {
		if record.Active && !day.After(limit) {
			days[day] = true
		}
	}
	return days, nil
}

func (f *fakeActivityStore) WithTx(_ *sql.Tx) store.ActivityStore { return f }

type fakeAchievementStore struct {
	byName map[string]*domain.Achievement
	order  []string
}

func newFakeAchievementStore(catalog []*domain.Achievement) *fakeAchievementStore {
	f := &fakeAchievementStore{byName: make(map[string]*domain.Achievement)}
	for _, a := range catalog {
		copied := *a
		f.byName[a.Name] = &copied
		f.order = append(f.order, a.Name)
	}
	return f
}

func (f *fakeAchievementStore) Seed(_ context.Context, catalog []*domain.Achievement) error {
	for _, a := range catalog {
		if _, ok := f.byName[a.Name]; !ok {
			copied := *a
			f.byName[a.Name] = &copied
			f.order = append(f.order, a.Name)
		}
	}
	return nil
}

func (f *fakeAchievementStore) GetAll(_ context.Context) ([]*domain.Achievement, error) {
	out := make([]*domain.Achievement, 0, len(f.order))
	for _, name := range f.order {
		copied := *f.byName[name]
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeAchievementStore) GetUnlocked(ctx context.Context) ([]*domain.Achievement, error) {
	all, _ := f.GetAll(ctx)
	var unlocked []*domain.Achievement
	for _, a := range all {
		if a.Unlocked() {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked, nil
}

func (f *fakeAchievementStore) Update(_ context.Context, achievement *domain.Achievement) error {
	existing, ok := f.byName[achievement.Name]
	if !ok {
		return store.ErrAchievementNotFound
	}
	if achievement.Progress > existing.Progress {
		existing.Progress = achievement.Progress
	}
	if existing.UnlockedAt == nil {
		existing.UnlockedAt = achievement.UnlockedAt
	}
	return nil
}

func (f *fakeAchievementStore) WithTx(_ *sql.Tx) store.AchievementStore { return f }

// --- fixture ---

type fixture struct {
	service       *progressServiceImpl
	vocab         *fakeVocabStore
	stats         *fakeStatsStore
	activity      *fakeActivityStore
	achievementDB *fakeAchievementStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &fixture{
		vocab:         newFakeVocabStore(),
		stats:         &fakeStatsStore{},
		activity:      newFakeActivityStore(),
		achievementDB: newFakeAchievementStore(achievements.DefaultCatalog()),
	}

	f.service = &progressServiceImpl{
		vocabStore:       f.vocab,
		statsStore:       f.stats,
		activityStore:    f.activity,
		achievementStore: f.achievementDB,
		srsService:       srs.NewDefaultService(),
		emitter:          events.NewInMemoryEventEmitter(logger),
		runTx: func(ctx context.Context, fn store.TxFn) error {
			return fn(ctx, nil)
		},
		logger: logger,
	}

	return f
}

func (f *fixture) addItem(t *testing.T, word string) *domain.VocabularyItem {
	t.Helper()
	item, err := domain.NewVocabularyItem(word, word+" (en)", domain.CEFRLevelA1)
	require.NoError(t, err)
	require.NoError(t, f.vocab.Upsert(context.Background(), item))
	return item
}

var testNow = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

// --- tests ---

func TestRecordReviewFirstOfDay(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	item := f.addItem(t, "Haus")

	result, err := f.service.RecordReview(context.Background(), item.ID, domain.ReviewOutcomeGood, 30, testNow)
	require.NoError(t, err)

	// Correct review reward plus the first-activity-of-the-day bonus.
	assert.Equal(t, 30, result.XPGained)
	assert.Equal(t, 30, result.TotalXP)
	assert.False(t, result.LeveledUp)
	assert.Equal(t, 1, result.NewLevel)

	// 30 seconds of study does not make the day active.
	assert.Equal(t, 0, result.StreakDays)

	assert.Equal(t, 1, result.Item.TimesSeen)
	assert.Equal(t, 1, result.Item.TimesCorrect)
	assert.Equal(t, 1, result.Item.Repetitions)
	require.NotNil(t, result.Item.NextReviewDate)

	// The schedule change was persisted.
	stored, err := f.vocab.GetByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TimesSeen)
}

func TestRecordReviewLoginBonusOncePerDay(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	item := f.addItem(t, "Fenster")

	first, err := f.service.RecordReview(context.Background(), item.ID, domain.ReviewOutcomeGood, 30, testNow)
	require.NoError(t, err)
	assert.Equal(t, 30, first.XPGained)

	second, err := f.service.RecordReview(context.Background(), item.ID, domain.ReviewOutcomeGood, 30, testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 5, second.XPGained)
	assert.Equal(t, 35, second.TotalXP)
}

func TestRecordReviewIncorrectReward(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	item := f.addItem(t, "Tisch")

	result, err := f.service.RecordReview(context.Background(), item.ID, domain.ReviewOutcomeAgain, 20, testNow)
	require.NoError(t, err)

	// Incorrect answers still earn effort XP.
	assert.Equal(t, 2+25, result.XPGained)
	assert.Equal(t, 0, result.Item.Repetitions)
	assert.Equal(t, 1, result.Item.TimesIncorrect)
}

func TestRecordReviewValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	item := f.addItem(t, "Stuhl")

	_, err := f.service.RecordReview(context.Background(), item.ID, "brilliant", 30, testNow)
	assert.ErrorIs(t, err, ErrInvalidOutcome)

	_, err = f.service.RecordReview(context.Background(), item.ID, domain.ReviewOutcomeGood, -1, testNow)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = f.service.RecordReview(context.Background(), uuid.New(), domain.ReviewOutcomeGood, 30, testNow)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRecordNewWord(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	item := f.addItem(t, "Apfel")

	result, err := f.service.RecordNewWord(context.Background(), item.ID, testNow)
	require.NoError(t, err)

	assert.Equal(t, 10+25, result.XPGained)
	assert.Equal(t, 0, result.Item.TimesSeen)
	require.NotNil(t, result.Item.NextReviewDate)
	assert.Equal(t, domain.DateOnly(testNow.AddDate(0, 0, 1)), domain.DateOnly(*result.Item.NextReviewDate))

	// Learning the same word twice is rejected.
	_, err = f.service.RecordNewWord(context.Background(), item.ID, testNow)
	assert.ErrorIs(t, err, ErrAlreadyLearned)
}

func TestRecordSessionActivatesStreakAndUnlocksFirstStep(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	result, err := f.service.RecordSession(context.Background(), 900, 12, true, testNow)
	require.NoError(t, err)

	// 15 minutes crosses the active-day threshold.
	assert.Equal(t, 1, result.StreakDays)

	// Login bonus plus the first_step unlock reward.
	assert.Equal(t, 25+50, result.XPGained)
	require.Len(t, result.NewlyUnlocked, 1)
	assert.Equal(t, "first_step", result.NewlyUnlocked[0].Name)

	stats, err := f.stats.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SessionsCompleted)
	assert.Equal(t, 1, stats.PerfectScores)
	assert.Equal(t, 900, stats.TotalSecondsStudied)
	assert.Equal(t, 1, stats.StreakDays)

	// Unlock is durable and idempotent: a second evaluation does not
	// re-grant the reward.
	second, err := f.service.RecordSession(context.Background(), 600, 5, false, testNow.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, second.NewlyUnlocked)
	assert.Equal(t, 0, second.XPGained)
}

func TestRecordSessionStreakMilestone(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	// Six active days lead up to today.
	for i := 6; i >= 1; i-- {
		day := testNow.AddDate(0, 0, -i)
		_, err := f.activity.Record(context.Background(), day, domain.ActivityDeltas{Seconds: 900})
		require.NoError(t, err)
	}

	yesterday := domain.DateOnly(testNow.AddDate(0, 0, -1))
	f.stats.stats = domain.NewUserStats()
	f.stats.stats.StreakDays = 6
	f.stats.stats.LongestStreak = 6
	f.stats.stats.LastActivityDate = &yesterday

	result, err := f.service.RecordSession(context.Background(), 900, 10, false, testNow)
	require.NoError(t, err)

	assert.Equal(t, 7, result.StreakDays)
	assert.Equal(t, 50, result.StreakBonus)

	// Login 25 + milestone 50 + first_step 50 + week_warrior 100.
	assert.Equal(t, 225, result.XPGained)

	names := make([]string, 0, len(result.NewlyUnlocked))
	for _, a := range result.NewlyUnlocked {
		names = append(names, a.Name)
	}
	assert.Contains(t, names, "week_warrior")
	assert.Contains(t, names, "first_step")

	stats, err := f.stats.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, stats.LongestStreak)
}

func TestRecordConversation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	result, err := f.service.RecordConversation(context.Background(), 5, testNow)
	require.NoError(t, err)

	assert.Equal(t, 5*8+25, result.XPGained)

	record, err := f.activity.Get(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, 300, record.TotalSeconds)

	_, err = f.service.RecordConversation(context.Background(), -1, testNow)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestRecordReviewPropagatesStoreFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	item := f.addItem(t, "Lampe")
	f.stats.updateErr = store.ErrUpdateFailed

	_, err := f.service.RecordReview(context.Background(), item.ID, domain.ReviewOutcomeGood, 30, testNow)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrUpdateFailed)
}
