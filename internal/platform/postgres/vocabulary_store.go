package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lernbuddy/internal/domain"
	"github.com/phrazzld/lernbuddy/internal/platform/logger"
	"github.com/phrazzld/lernbuddy/internal/store"
)

// vocabularyColumns is the select list shared by every query that hydrates a
// full domain.VocabularyItem. Keep in sync with scanVocabularyItem.
const vocabularyColumns = `id, word, translation, cefr_level, part_of_speech, gender,
	plural_form, example_sentence, example_translation, times_seen, times_correct,
	times_incorrect, last_reviewed, next_review_date, ease_factor, interval_days,
	repetitions, mastered, created_at, updated_at`

// PostgresVocabularyStore implements the store.VocabularyStore interface
// using a PostgreSQL database as the storage backend.
type PostgresVocabularyStore struct {
	db store.DBTX
}

// NewPostgresVocabularyStore creates a new PostgreSQL implementation of the
// VocabularyStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresVocabularyStore(db store.DBTX) *PostgresVocabularyStore {
	return &PostgresVocabularyStore{
		db: db,
	}
}

// Ensure PostgresVocabularyStore implements store.VocabularyStore interface
var _ store.VocabularyStore = (*PostgresVocabularyStore)(nil)

// WithTx implements store.VocabularyStore.WithTx
func (s *PostgresVocabularyStore) WithTx(tx *sql.Tx) store.VocabularyStore {
	return NewPostgresVocabularyStore(tx)
}

// Upsert implements store.VocabularyStore.Upsert
func (s *PostgresVocabularyStore) Upsert(ctx context.Context, item *domain.VocabularyItem) error {
	log := logger.FromContext(ctx)

	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	// On conflict only the descriptive fields are refreshed; scheduling
	// state belongs to the learner, not the word list.
	query := `
		INSERT INTO vocabulary_items (` + vocabularyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (word, cefr_level) DO UPDATE SET
			translation = EXCLUDED.translation,
			part_of_speech = EXCLUDED.part_of_speech,
			gender = EXCLUDED.gender,
			plural_form = EXCLUDED.plural_form,
			example_sentence = EXCLUDED.example_sentence,
			example_translation = EXCLUDED.example_translation,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		item.ID,
		item.Word,
		item.Translation,
		item.CEFRLevel,
		item.PartOfSpeech,
		item.Gender,
		item.PluralForm,
		item.ExampleSentence,
		item.ExampleTranslation,
		item.TimesSeen,
		item.TimesCorrect,
		item.TimesIncorrect,
		item.LastReviewed,
		item.NextReviewDate,
		item.EaseFactor,
		item.IntervalDays,
		item.Repetitions,
		item.Mastered,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert vocabulary item",
			"word", item.Word,
			"cefr_level", item.CEFRLevel,
			"error", err)
		return MapError(err)
	}

	return nil
}

// GetByID implements store.VocabularyStore.GetByID
func (s *PostgresVocabularyStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.VocabularyItem, error) {
	query := `SELECT ` + vocabularyColumns + ` FROM vocabulary_items WHERE id = $1`
	return s.getOne(ctx, query, id)
}

// GetForUpdate implements store.VocabularyStore.GetForUpdate
func (s *PostgresVocabularyStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.VocabularyItem, error) {
	query := `SELECT ` + vocabularyColumns + ` FROM vocabulary_items WHERE id = $1 FOR UPDATE`
	return s.getOne(ctx, query, id)
}

func (s *PostgresVocabularyStore) getOne(ctx context.Context, query string, id uuid.UUID) (*domain.VocabularyItem, error) {
	row := s.db.QueryRowContext(ctx, query, id)

	item, err := scanVocabularyItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrVocabularyNotFound
		}
		return nil, MapError(err)
	}

	return item, nil
}

// Update implements store.VocabularyStore.Update
func (s *PostgresVocabularyStore) Update(ctx context.Context, item *domain.VocabularyItem) error {
	log := logger.FromContext(ctx)

	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE vocabulary_items
		SET word = $2,
			translation = $3,
			cefr_level = $4,
			part_of_speech = $5,
			gender = $6,
			plural_form = $7,
			example_sentence = $8,
			example_translation = $9,
			times_seen = $10,
			times_correct = $11,
			times_incorrect = $12,
			last_reviewed = $13,
			next_review_date = $14,
			ease_factor = $15,
			interval_days = $16,
			repetitions = $17,
			mastered = $18,
			updated_at = $19
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query,
		item.ID,
		item.Word,
		item.Translation,
		item.CEFRLevel,
		item.PartOfSpeech,
		item.Gender,
		item.PluralForm,
		item.ExampleSentence,
		item.ExampleTranslation,
		item.TimesSeen,
		item.TimesCorrect,
		item.TimesIncorrect,
		item.LastReviewed,
		item.NextReviewDate,
		item.EaseFactor,
		item.IntervalDays,
		item.Repetitions,
		item.Mastered,
		time.Now().UTC(),
	)
	if err != nil {
		log.Error("failed to update vocabulary item",
			"item_id", item.ID,
			"error", err)
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrVocabularyNotFound)
}

// GetDueReviews implements store.VocabularyStore.GetDueReviews
func (s *PostgresVocabularyStore) GetDueReviews(ctx context.Context, now time.Time, limit int) ([]*domain.VocabularyItem, error) {
	query := `
		SELECT ` + vocabularyColumns + `
		FROM vocabulary_items
		WHERE NOT mastered
		  AND next_review_date IS NOT NULL
		  AND next_review_date <= $1
		ORDER BY next_review_date ASC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, now.UTC(), limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return scanVocabularyItems(rows)
}

// GetNewWords implements store.VocabularyStore.GetNewWords
func (s *PostgresVocabularyStore) GetNewWords(ctx context.Context, level domain.CEFRLevel, limit int) ([]*domain.VocabularyItem, error) {
	query := `
		SELECT ` + vocabularyColumns + `
		FROM vocabulary_items
		WHERE cefr_level = $1
		  AND times_seen = 0
		  AND next_review_date IS NULL
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, level, limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return scanVocabularyItems(rows)
}

// Counts implements store.VocabularyStore.Counts
func (s *PostgresVocabularyStore) Counts(ctx context.Context) (store.VocabularyCounts, error) {
	counts := store.VocabularyCounts{
		ByLevel: make(map[domain.CEFRLevel]int),
	}

	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE times_seen > 0 OR next_review_date IS NOT NULL),
			COUNT(*) FILTER (WHERE mastered),
			COALESCE(SUM(times_seen), 0),
			COALESCE(SUM(times_correct), 0)
		FROM vocabulary_items
	`

	err := s.db.QueryRowContext(ctx, query).Scan(
		&counts.TotalWords,
		&counts.WordsLearned,
		&counts.MasteredCount,
		&counts.TotalReviews,
		&counts.TotalCorrect,
	)
	if err != nil {
		return store.VocabularyCounts{}, MapError(err)
	}

	levelQuery := `SELECT cefr_level, COUNT(*) FROM vocabulary_items GROUP BY cefr_level`

	rows, err := s.db.QueryContext(ctx, levelQuery)
	if err != nil {
		return store.VocabularyCounts{}, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var level domain.CEFRLevel
		var n int
		if err := rows.Scan(&level, &n); err != nil {
			return store.VocabularyCounts{}, MapError(err)
		}
		counts.ByLevel[level] = n
	}
	if err := rows.Err(); err != nil {
		return store.VocabularyCounts{}, MapError(err)
	}

	return counts, nil
}

// ReviewForecast implements store.VocabularyStore.ReviewForecast
func (s *PostgresVocabularyStore) ReviewForecast(ctx context.Context, from time.Time, days int) (map[time.Time]int, error) {
	start := domain.DateOnly(from)
	end := start.AddDate(0, 0, days)

	query := `
		SELECT (next_review_date AT TIME ZONE 'UTC')::date AS due_day, COUNT(*)
		FROM vocabulary_items
		WHERE NOT mastered
		  AND next_review_date IS NOT NULL
		  AND next_review_date >= $1
		  AND next_review_date < $2
		GROUP BY due_day
	`

	rows, err := s.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	forecast := make(map[time.Time]int, days)
	for rows.Next() {
		var day time.Time
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, MapError(err)
		}
		forecast[domain.DateOnly(day)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return forecast, nil
}

// scanVocabularyItem hydrates a single row into a domain entity.
func scanVocabularyItem(row *sql.Row) (*domain.VocabularyItem, error) {
	var item domain.VocabularyItem
	err := row.Scan(
		&item.ID,
		&item.Word,
		&item.Translation,
		&item.CEFRLevel,
		&item.PartOfSpeech,
		&item.Gender,
		&item.PluralForm,
		&item.ExampleSentence,
		&item.ExampleTranslation,
		&item.TimesSeen,
		&item.TimesCorrect,
		&item.TimesIncorrect,
		&item.LastReviewed,
		&item.NextReviewDate,
		&item.EaseFactor,
		&item.IntervalDays,
		&item.Repetitions,
		&item.Mastered,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func scanVocabularyItems(rows *sql.Rows) ([]*domain.VocabularyItem, error) {
	var items []*domain.VocabularyItem
	for rows.Next() {
		var item domain.VocabularyItem
		err := rows.Scan(
			&item.ID,
			&item.Word,
			&item.Translation,
			&item.CEFRLevel,
			&item.PartOfSpeech,
			&item.Gender,
			&item.PluralForm,
			&item.ExampleSentence,
			&item.ExampleTranslation,
			&item.TimesSeen,
			&item.TimesCorrect,
			&item.TimesIncorrect,
			&item.LastReviewed,
			&item.NextReviewDate,
			&item.EaseFactor,
			&item.IntervalDays,
			&item.Repetitions,
			&item.Mastered,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, MapError(err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return items, nil
}
