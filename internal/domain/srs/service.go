// Package srs implements the modified SM-2 spaced-repetition scheduler.
// The transition function is pure: it consumes a vocabulary item and a
// review outcome and produces the item's next scheduling state without
// touching storage.
package srs

import (
	"errors"
	"time"

	"github.com/phrazzld/lernbuddy/internal/domain"
)

// Common errors
var (
	ErrNilItem = errors.New("vocabulary item cannot be nil")
)

// Service defines the interface for scheduling operations.
type Service interface {
	// ApplyReview computes the item's next scheduling state from a review
	// outcome. The returned item is a new value; the input is not mutated.
	ApplyReview(
		item *domain.VocabularyItem,
		outcome domain.ReviewOutcome,
		now time.Time,
	) (*domain.VocabularyItem, error)

	// ScheduleNewWord marks a never-reviewed item as learned, scheduling its
	// first review one interval out without running the review transition.
	ScheduleNewWord(item *domain.VocabularyItem, now time.Time) (*domain.VocabularyItem, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates an SRS service with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates an SRS service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{params: params}
}

func (s *defaultService) ApplyReview(
	item *domain.VocabularyItem,
	outcome domain.ReviewOutcome,
	now time.Time,
) (*domain.VocabularyItem, error) {
	if item == nil {
		return nil, ErrNilItem
	}

	if !outcome.IsValid() {
		return nil, domain.ErrInvalidReviewOutcome
	}

	return calculateNextItem(item, outcome, now, s.params), nil
}

func (s *defaultService) ScheduleNewWord(
	item *domain.VocabularyItem,
	now time.Time,
) (*domain.VocabularyItem, error) {
	if item == nil {
		return nil, ErrNilItem
	}

	next := *item
	nowUTC := now.UTC()
	firstReview := nowUTC.AddDate(0, 0, domain.DefaultIntervalDays)

	next.IntervalDays = domain.DefaultIntervalDays
	next.NextReviewDate = &firstReview
	next.UpdatedAt = nowUTC

	return &next, nil
}
