package progress

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lernbuddy/internal/domain"
)

// MockProgressService is a mock implementation of the ProgressService
// interface for testing.
type MockProgressService struct {
	RecordReviewFunc       func(ctx context.Context, itemID uuid.UUID, outcome domain.ReviewOutcome, elapsedSeconds int, now time.Time) (*ReviewResult, error)
	RecordNewWordFunc      func(ctx context.Context, itemID uuid.UUID, now time.Time) (*ReviewResult, error)
	RecordSessionFunc      func(ctx context.Context, seconds, exercises int, perfect bool, now time.Time) (*SessionResult, error)
	RecordConversationFunc func(ctx context.Context, minutes int, now time.Time) (*SessionResult, error)
	GetDueReviewsFunc      func(ctx context.Context, now time.Time, limit int) ([]*domain.VocabularyItem, error)
	GetNewWordsFunc        func(ctx context.Context, level domain.CEFRLevel, limit int) ([]*domain.VocabularyItem, error)
}

// Ensure MockProgressService implements ProgressService interface
var _ ProgressService = (*MockProgressService)(nil)

// RecordReview delegates to RecordReviewFunc when set.
func (m *MockProgressService) RecordReview(
	ctx context.Context,
	itemID uuid.UUID,
	outcome domain.ReviewOutcome,
	elapsedSeconds int,
	now time.Time,
) (*ReviewResult, error) {
	if m.RecordReviewFunc != nil {
		return m.RecordReviewFunc(ctx, itemID, outcome, elapsedSeconds, now)
	}
	return nil, nil
}

// RecordNewWord delegates to RecordNewWordFunc when set.
func (m *MockProgressService) RecordNewWord(
	ctx context.Context,
	itemID uuid.UUID,
	now time.Time,
) (*ReviewResult, error) {
	if m.RecordNewWordFunc != nil {
		return m.RecordNewWordFunc(ctx, itemID, now)
	}
	return nil, nil
}

// RecordSession delegates to RecordSessionFunc when set.
func (m *MockProgressService) RecordSession(
	ctx context.Context,
	seconds int,
	exercises int,
	perfect bool,
	now time.Time,
) (*SessionResult, error) {
	if m.RecordSessionFunc != nil {
		return m.RecordSessionFunc(ctx, seconds, exercises, perfect, now)
	}
	return nil, nil
}

// RecordConversation delegates to RecordConversationFunc when set.
func (m *MockProgressService) RecordConversation(
	ctx context.Context,
	minutes int,
	now time.Time,
) (*SessionResult, error) {
	if m.RecordConversationFunc != nil {
		return m.RecordConversationFunc(ctx, minutes, now)
	}
	return nil, nil
}

// GetDueReviews delegates to GetDueReviewsFunc when set.
func (m *MockProgressService) GetDueReviews(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]*domain.VocabularyItem, error) {
	if m.GetDueReviewsFunc != nil {
		return m.GetDueReviewsFunc(ctx, now, limit)
	}
	return nil, nil
}

// GetNewWords delegates to GetNewWordsFunc when set.
func (m *MockProgressService) GetNewWords(
	ctx context.Context,
	level domain.CEFRLevel,
	limit int,
) ([]*domain.VocabularyItem, error) {
	if m.GetNewWordsFunc != nil {
		return m.GetNewWordsFunc(ctx, level, limit)
	}
	return nil, nil
}
