package srs

import (
	"math"
	"time"

	"github.com/phrazzld/lernbuddy/internal/domain"
)

// calculateNewEaseFactor adjusts the ease factor for the given outcome.
// Again and Hard push the ease down, Easy pushes it up, Good leaves it
// unchanged. The result is always clamped to [MinEaseFactor, MaxEaseFactor].
func calculateNewEaseFactor(currentEF float64, outcome domain.ReviewOutcome, params *Params) float64 {
	newEF := currentEF

	switch outcome {
	case domain.ReviewOutcomeAgain:
		newEF = currentEF - params.AgainEasePenalty
	case domain.ReviewOutcomeHard:
		newEF = currentEF - params.HardEasePenalty
	case domain.ReviewOutcomeEasy:
		newEF = currentEF + params.EasyEaseBonus
	}

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}
	if newEF > params.MaxEaseFactor {
		newEF = params.MaxEaseFactor
	}

	return newEF
}

// calculateNewInterval determines the next interval in days.
//
// currentInterval is the interval before this review (already defaulted to 1
// for a never-scheduled item) and newRepetitions is the consecutive-correct
// count after this outcome has been applied.
//
// Outcome behavior:
//   - Again resets to 1 day.
//   - Hard shrinks the interval by HardIntervalFactor but never below 1 day,
//     except on the first repetition which always schedules 1 day out.
//   - Good walks the fixed ladder 1 day, GraduatingIntervalDays, then grows
//     by the ease factor.
//   - Easy grows by the ease factor plus the EasyBonus; on a fresh 1-day
//     interval it jumps from GraduatingIntervalDays instead.
func calculateNewInterval(
	currentInterval int,
	newRepetitions int,
	easeFactor float64,
	outcome domain.ReviewOutcome,
	params *Params,
) int {
	switch outcome {
	case domain.ReviewOutcomeAgain:
		return 1

	case domain.ReviewOutcomeHard:
		if newRepetitions <= 1 {
			return 1
		}
		next := roundToDays(float64(currentInterval) * params.HardIntervalFactor)
		if next < 1 {
			next = 1
		}
		return next

	case domain.ReviewOutcomeGood:
		switch newRepetitions {
		case 1:
			return 1
		case 2:
			return params.GraduatingIntervalDays
		default:
			return roundToDays(float64(currentInterval) * easeFactor)
		}

	case domain.ReviewOutcomeEasy:
		base := float64(currentInterval) * easeFactor
		if currentInterval == 1 {
			base = float64(params.GraduatingIntervalDays)
		}
		return roundToDays(base * params.EasyBonus)
	}

	return 1
}

// calculateNextItem applies a review outcome to a vocabulary item, returning
// a new item rather than mutating the input. This is the only transition
// function for per-word scheduling state.
func calculateNextItem(
	item *domain.VocabularyItem,
	outcome domain.ReviewOutcome,
	now time.Time,
	params *Params,
) *domain.VocabularyItem {
	next := *item

	next.TimesSeen++
	if outcome.Correct() {
		next.TimesCorrect++
	} else {
		next.TimesIncorrect++
	}

	// An item that has never been scheduled defaults to a 1-day interval
	// before the transition runs.
	currentInterval := item.IntervalDays
	if currentInterval < 1 {
		currentInterval = 1
	}

	if outcome == domain.ReviewOutcomeAgain {
		next.Repetitions = 0
	} else {
		next.Repetitions = item.Repetitions + 1
	}

	// Easy grows by the pre-adjustment ease; the ease bonus applies to
	// future reviews.
	next.IntervalDays = calculateNewInterval(currentInterval, next.Repetitions, item.EaseFactor, outcome, params)
	next.EaseFactor = calculateNewEaseFactor(item.EaseFactor, outcome, params)

	reviewedAt := now.UTC()
	nextReview := reviewedAt.AddDate(0, 0, next.IntervalDays)
	next.LastReviewed = &reviewedAt
	next.NextReviewDate = &nextReview
	next.Mastered = next.IntervalDays >= params.MasteryThresholdDays
	next.UpdatedAt = reviewedAt

	return &next
}

// roundToDays rounds half away from zero, matching the interval sequences
// the scheduler is specified against (3 * 2.5 -> 8).
func roundToDays(days float64) int {
	return int(math.Round(days))
}
