package srs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lernbuddy/internal/domain"
	"github.com/phrazzld/lernbuddy/internal/domain/srs"
)

var testNow = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

func newTestItem(t *testing.T) *domain.VocabularyItem {
	t.Helper()

	item, err := domain.NewVocabularyItem("Haus", "house", domain.CEFRLevelA1)
	require.NoError(t, err)
	return item
}

func TestApplyReviewGoodLadder(t *testing.T) {
	t.Parallel()

	svc := srs.NewDefaultService()
	item := newTestItem(t)

	// Consecutive Good answers at the default ease walk 1, 3, 8, 20, 50.
	expected := []int{1, 3, 8, 20, 50}

	now := testNow
	for i, want := range expected {
		next, err := svc.ApplyReview(item, domain.ReviewOutcomeGood, now)
		require.NoError(t, err)

		assert.Equal(t, want, next.IntervalDays, "interval after Good #%d", i+1)
		assert.Equal(t, i+1, next.Repetitions)
		// Good leaves the ease factor untouched
		assert.InDelta(t, domain.DefaultEaseFactor, next.EaseFactor, 1e-9)

		require.NotNil(t, next.NextReviewDate)
		assert.Equal(t, now.AddDate(0, 0, want), *next.NextReviewDate)

		item = next
		now = now.AddDate(0, 0, want)
	}

	// The 50-day interval crosses the mastery threshold.
	assert.True(t, item.Mastered)
	assert.Equal(t, 5, item.TimesSeen)
	assert.Equal(t, 5, item.TimesCorrect)
}

func TestApplyReviewAgain(t *testing.T) {
	t.Parallel()

	svc := srs.NewDefaultService()
	item := newTestItem(t)
	item.IntervalDays = 20
	item.Repetitions = 4

	next, err := svc.ApplyReview(item, domain.ReviewOutcomeAgain, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1, next.IntervalDays)
	assert.Zero(t, next.Repetitions)
	assert.InDelta(t, 2.3, next.EaseFactor, 1e-9)
	assert.Equal(t, 1, next.TimesIncorrect)
	assert.False(t, next.Mastered)

	// The input item is never mutated
	assert.Equal(t, 20, item.IntervalDays)
	assert.Equal(t, 4, item.Repetitions)
}

func TestApplyReviewEaseFactorFloor(t *testing.T) {
	t.Parallel()

	svc := srs.NewDefaultService()
	item := newTestItem(t)
	item.EaseFactor = 1.35

	next, err := svc.ApplyReview(item, domain.ReviewOutcomeAgain, testNow)
	require.NoError(t, err)

	assert.InDelta(t, 1.3, next.EaseFactor, 1e-9)

	// Repeated failures never push the ease below the floor
	next, err = svc.ApplyReview(next, domain.ReviewOutcomeAgain, testNow)
	require.NoError(t, err)
	assert.InDelta(t, 1.3, next.EaseFactor, 1e-9)
}

func TestApplyReviewEaseFactorCap(t *testing.T) {
	t.Parallel()

	svc := srs.NewDefaultService()
	item := newTestItem(t)
	item.EaseFactor = 2.95

	next, err := svc.ApplyReview(item, domain.ReviewOutcomeEasy, testNow)
	require.NoError(t, err)

	assert.InDelta(t, 3.0, next.EaseFactor, 1e-9)
}

func TestApplyReviewHard(t *testing.T) {
	t.Parallel()

	svc := srs.NewDefaultService()

	t.Run("first repetition schedules one day out", func(t *testing.T) {
		t.Parallel()

		next, err := svc.ApplyReview(newTestItem(t), domain.ReviewOutcomeHard, testNow)
		require.NoError(t, err)

		assert.Equal(t, 1, next.IntervalDays)
		assert.Equal(t, 1, next.Repetitions)
		assert.InDelta(t, 2.35, next.EaseFactor, 1e-9)
		// Hard counts as incorrect for accuracy
		assert.Equal(t, 1, next.TimesIncorrect)
	})

	t.Run("shrinks an established interval", func(t *testing.T) {
		t.Parallel()

		item := newTestItem(t)
		item.IntervalDays = 10
		item.Repetitions = 3

		next, err := svc.ApplyReview(item, domain.ReviewOutcomeHard, testNow)
		require.NoError(t, err)

		// 10 * 0.85 rounds to 9
		assert.Equal(t, 9, next.IntervalDays)
		assert.Equal(t, 4, next.Repetitions)
	})

	t.Run("never drops below one day", func(t *testing.T) {
		t.Parallel()

		item := newTestItem(t)
		item.IntervalDays = 1
		item.Repetitions = 3

		next, err := svc.ApplyReview(item, domain.ReviewOutcomeHard, testNow)
		require.NoError(t, err)

		assert.Equal(t, 1, next.IntervalDays)
	})
}

func TestApplyReviewEasy(t *testing.T) {
	t.Parallel()

	svc := srs.NewDefaultService()

	t.Run("jumps from a fresh interval", func(t *testing.T) {
		t.Parallel()

		next, err := svc.ApplyReview(newTestItem(t), domain.ReviewOutcomeEasy, testNow)
		require.NoError(t, err)

		// Graduating interval times the easy bonus: 3 * 1.3 rounds to 4
		assert.Equal(t, 4, next.IntervalDays)
		assert.InDelta(t, 2.65, next.EaseFactor, 1e-9)
		assert.Equal(t, 1, next.TimesCorrect)
	})

	t.Run("grows an established interval by ease and bonus", func(t *testing.T) {
		t.Parallel()

		item := newTestItem(t)
		item.IntervalDays = 8
		item.Repetitions = 3

		next, err := svc.ApplyReview(item, domain.ReviewOutcomeEasy, testNow)
		require.NoError(t, err)

		// 8 * 2.5 * 1.3 = 26, past the mastery threshold
		assert.Equal(t, 26, next.IntervalDays)
		assert.True(t, next.Mastered)
	})
}

func TestApplyReviewValidation(t *testing.T) {
	t.Parallel()

	svc := srs.NewDefaultService()

	_, err := svc.ApplyReview(nil, domain.ReviewOutcomeGood, testNow)
	assert.ErrorIs(t, err, srs.ErrNilItem)

	_, err = svc.ApplyReview(newTestItem(t), domain.ReviewOutcome("perfect"), testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidReviewOutcome)
}

func TestScheduleNewWord(t *testing.T) {
	t.Parallel()

	svc := srs.NewDefaultService()
	item := newTestItem(t)

	next, err := svc.ScheduleNewWord(item, testNow)
	require.NoError(t, err)

	require.NotNil(t, next.NextReviewDate)
	assert.Equal(t, testNow.AddDate(0, 0, 1), *next.NextReviewDate)
	assert.Equal(t, 1, next.IntervalDays)
	// Learning a word is not a review
	assert.Zero(t, next.TimesSeen)
	assert.Zero(t, next.Repetitions)

	// Original stays unscheduled
	assert.Nil(t, item.NextReviewDate)

	_, err = svc.ScheduleNewWord(nil, testNow)
	assert.ErrorIs(t, err, srs.ErrNilItem)
}

func TestCustomParams(t *testing.T) {
	t.Parallel()

	svc := srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		GraduatingIntervalDays: 5,
	}))

	item := newTestItem(t)
	item.Repetitions = 1

	next, err := svc.ApplyReview(item, domain.ReviewOutcomeGood, testNow)
	require.NoError(t, err)

	assert.Equal(t, 5, next.IntervalDays)
}
