package progress

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lernbuddy/internal/domain"
)

// ReviewResult describes the effect of one recorded review or learned word:
// the item's new schedule plus every gamification change the event caused.
type ReviewResult struct {
	Item          *domain.VocabularyItem `json:"item"`
	XPGained      int                    `json:"xp_gained"`
	TotalXP       int                    `json:"total_xp"`
	LeveledUp     bool                   `json:"leveled_up"`
	NewLevel      int                    `json:"new_level"`
	StreakDays    int                    `json:"streak_days"`
	NewlyUnlocked []*domain.Achievement  `json:"newly_unlocked,omitempty"`
}

// SessionResult describes the effect of a completed session or conversation.
type SessionResult struct {
	XPGained      int                   `json:"xp_gained"`
	TotalXP       int                   `json:"total_xp"`
	LeveledUp     bool                  `json:"leveled_up"`
	NewLevel      int                   `json:"new_level"`
	StreakDays    int                   `json:"streak_days"`
	StreakBonus   int                   `json:"streak_bonus"`
	NewlyUnlocked []*domain.Achievement `json:"newly_unlocked,omitempty"`
}

// ProgressService orchestrates every learning event. Each Record method runs
// in a single database transaction: the item's schedule, the daily activity
// ledger, the stats aggregate, and achievement unlocks change together or
// not at all.
type ProgressService interface {
	// RecordReview applies a review outcome to a vocabulary item and grants
	// the resulting rewards. elapsedSeconds is the study time the review
	// consumed and feeds the daily activity ledger.
	//
	// Returns ErrItemNotFound if the item does not exist and
	// ErrInvalidOutcome if the outcome is not one of the four known values.
	RecordReview(
		ctx context.Context,
		itemID uuid.UUID,
		outcome domain.ReviewOutcome,
		elapsedSeconds int,
		now time.Time,
	) (*ReviewResult, error)

	// RecordNewWord marks a never-reviewed item as learned, schedules its
	// first review, and grants the new-word reward.
	//
	// Returns ErrItemNotFound if the item does not exist and
	// ErrAlreadyLearned if the item has already entered the review cycle.
	RecordNewWord(ctx context.Context, itemID uuid.UUID, now time.Time) (*ReviewResult, error)

	// RecordSession records a completed study session: its duration, the
	// number of exercises, and whether every answer was correct. Callers
	// must not re-report time already recorded per review.
	RecordSession(
		ctx context.Context,
		seconds int,
		exercises int,
		perfect bool,
		now time.Time,
	) (*SessionResult, error)

	// RecordConversation grants the per-minute conversation reward for a
	// finished roleplay dialogue and records its duration as study time.
	RecordConversation(ctx context.Context, minutes int, now time.Time) (*SessionResult, error)

	// GetDueReviews returns unmastered items due at or before now, most
	// overdue first. This method is a thin wrapper around the store layer
	// and does not modify any data.
	GetDueReviews(ctx context.Context, now time.Time, limit int) ([]*domain.VocabularyItem, error)

	// GetNewWords returns never-seen items for a CEFR level, oldest first.
	GetNewWords(ctx context.Context, level domain.CEFRLevel, limit int) ([]*domain.VocabularyItem, error)
}

// Common error types for ProgressService
var (
	// ErrItemNotFound indicates that the vocabulary item does not exist.
	ErrItemNotFound = errors.New("vocabulary item not found")

	// ErrInvalidOutcome indicates an invalid review outcome was provided.
	ErrInvalidOutcome = errors.New("invalid review outcome")

	// ErrAlreadyLearned indicates the item has already entered the review cycle.
	ErrAlreadyLearned = errors.New("word already learned")

	// ErrInvalidDuration indicates a negative duration or exercise count.
	ErrInvalidDuration = errors.New("duration must not be negative")
)
