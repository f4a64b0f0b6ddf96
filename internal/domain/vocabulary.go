package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReviewOutcome represents the learner's self-assessment of a vocabulary review.
type ReviewOutcome string

// Possible review outcome values
const (
	ReviewOutcomeAgain ReviewOutcome = "again"
	ReviewOutcomeHard  ReviewOutcome = "hard"
	ReviewOutcomeGood  ReviewOutcome = "good"
	ReviewOutcomeEasy  ReviewOutcome = "easy"
)

// IsValid reports whether the outcome is one of the four known values.
func (o ReviewOutcome) IsValid() bool {
	switch o {
	case ReviewOutcomeAgain, ReviewOutcomeHard, ReviewOutcomeGood, ReviewOutcomeEasy:
		return true
	default:
		return false
	}
}

// Correct reports whether the outcome counts as a correct recall for accuracy
// purposes. Again and Hard both count as incorrect, even though Hard still
// advances the schedule modestly.
func (o ReviewOutcome) Correct() bool {
	return o == ReviewOutcomeGood || o == ReviewOutcomeEasy
}

// CEFRLevel is a standard language-proficiency band used to tag vocabulary
// difficulty. The tool covers A1 through B2.
type CEFRLevel string

const (
	CEFRLevelA1 CEFRLevel = "A1"
	CEFRLevelA2 CEFRLevel = "A2"
	CEFRLevelB1 CEFRLevel = "B1"
	CEFRLevelB2 CEFRLevel = "B2"
)

// IsValid reports whether the level is one of the supported bands.
func (l CEFRLevel) IsValid() bool {
	switch l {
	case CEFRLevelA1, CEFRLevelA2, CEFRLevelB1, CEFRLevelB2:
		return true
	default:
		return false
	}
}

// Default SRS parameters for freshly imported vocabulary.
const (
	DefaultEaseFactor   = 2.5
	DefaultIntervalDays = 1

	// MasteryThresholdDays is the interval at which an item counts as mastered.
	MasteryThresholdDays = 21
)

// VocabularyItem is a German word together with its per-word scheduling state.
// Identity is the (Word, CEFRLevel) pair; the UUID is a surrogate key for
// storage and API addressing. Scheduling fields are mutated only through the
// srs package's transition function.
type VocabularyItem struct {
	ID                 uuid.UUID  `json:"id"`
	Word               string     `json:"word"`
	Translation        string     `json:"translation"`
	CEFRLevel          CEFRLevel  `json:"cefr_level"`
	PartOfSpeech       string     `json:"part_of_speech,omitempty"`
	Gender             string     `json:"gender,omitempty"`
	PluralForm         string     `json:"plural_form,omitempty"`
	ExampleSentence    string     `json:"example_sentence,omitempty"`
	ExampleTranslation string     `json:"example_translation,omitempty"`
	TimesSeen          int        `json:"times_seen"`
	TimesCorrect       int        `json:"times_correct"`
	TimesIncorrect     int        `json:"times_incorrect"`
	LastReviewed       *time.Time `json:"last_reviewed,omitempty"`
	NextReviewDate     *time.Time `json:"next_review_date,omitempty"` // nil means never scheduled
	EaseFactor         float64    `json:"ease_factor"`
	IntervalDays       int        `json:"interval_days"`
	Repetitions        int        `json:"repetitions"` // consecutive correct streak
	Mastered           bool       `json:"mastered"`    // derived: IntervalDays >= MasteryThresholdDays
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NewVocabularyItem creates a vocabulary item with default scheduling state.
// New items start unscheduled (NextReviewDate nil) and become eligible as
// "new words" until first learned or reviewed.
func NewVocabularyItem(word, translation string, level CEFRLevel) (*VocabularyItem, error) {
	now := time.Now().UTC()
	item := &VocabularyItem{
		ID:           uuid.New(),
		Word:         word,
		Translation:  translation,
		CEFRLevel:    level,
		EaseFactor:   DefaultEaseFactor,
		IntervalDays: DefaultIntervalDays,
		Repetitions:  0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks the item's invariants.
func (v *VocabularyItem) Validate() error {
	if v.Word == "" {
		return ErrEmptyWord
	}

	if v.Translation == "" {
		return ErrEmptyTranslation
	}

	if !v.CEFRLevel.IsValid() {
		return ErrInvalidCEFRLevel
	}

	if v.IntervalDays < 1 {
		return ErrInvalidInterval
	}

	if v.EaseFactor <= 1.0 {
		return ErrInvalidEaseFactor
	}

	return nil
}

// Accuracy returns the percentage of reviews answered correctly, or 0 for an
// item that has never been seen.
func (v *VocabularyItem) Accuracy() float64 {
	if v.TimesSeen == 0 {
		return 0
	}
	return float64(v.TimesCorrect) / float64(v.TimesSeen) * 100
}
