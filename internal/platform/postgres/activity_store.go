package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/lernbuddy/internal/domain"
	"github.com/phrazzld/lernbuddy/internal/platform/logger"
	"github.com/phrazzld/lernbuddy/internal/store"
)

const activityColumns = `date, total_seconds, xp_earned, words_learned,
	exercises_completed, sessions_count, active`

// PostgresActivityStore implements the store.ActivityStore interface
// using a PostgreSQL database as the storage backend.
type PostgresActivityStore struct {
	db store.DBTX
}

// NewPostgresActivityStore creates a new PostgreSQL implementation of the
// ActivityStore interface.
func NewPostgresActivityStore(db store.DBTX) *PostgresActivityStore {
	return &PostgresActivityStore{
		db: db,
	}
}

// Ensure PostgresActivityStore implements store.ActivityStore interface
var _ store.ActivityStore = (*PostgresActivityStore)(nil)

// WithTx implements store.ActivityStore.WithTx
func (s *PostgresActivityStore) WithTx(tx *sql.Tx) store.ActivityStore {
	return NewPostgresActivityStore(tx)
}

// Record implements store.ActivityStore.Record
func (s *PostgresActivityStore) Record(ctx context.Context, date time.Time, deltas domain.ActivityDeltas) (*domain.DailyActivityRecord, error) {
	log := logger.FromContext(ctx)

	if err := deltas.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	day := domain.DateOnly(date)

	// The ledger only records days that have happened; a future date would
	// corrupt streak recomputation.
	if day.After(domain.DateOnly(time.Now().UTC())) {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrFutureDate)
	}

	// Single round trip: create the day's row on first activity, otherwise
	// add the deltas, and recompute the active flag from the new total.
	query := `
		INSERT INTO daily_activity (` + activityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $2 >= $7)
		ON CONFLICT (date) DO UPDATE SET
			total_seconds = daily_activity.total_seconds + EXCLUDED.total_seconds,
			xp_earned = daily_activity.xp_earned + EXCLUDED.xp_earned,
			words_learned = daily_activity.words_learned + EXCLUDED.words_learned,
			exercises_completed = daily_activity.exercises_completed + EXCLUDED.exercises_completed,
			sessions_count = daily_activity.sessions_count + EXCLUDED.sessions_count,
			active = daily_activity.total_seconds + EXCLUDED.total_seconds >= $7
		RETURNING ` + activityColumns + `
	`

	row := s.db.QueryRowContext(ctx, query,
		day,
		deltas.Seconds,
		deltas.XP,
		deltas.Words,
		deltas.Exercises,
		deltas.Sessions,
		domain.MinimumActiveSeconds,
	)

	record, err := scanActivityRecord(row)
	if err != nil {
		log.Error("failed to record daily activity",
			"date", day.Format(time.DateOnly),
			"error", err)
		return nil, MapError(err)
	}

	return record, nil
}

// Get implements store.ActivityStore.Get
func (s *PostgresActivityStore) Get(ctx context.Context, date time.Time) (*domain.DailyActivityRecord, error) {
	query := `SELECT ` + activityColumns + ` FROM daily_activity WHERE date = $1`

	row := s.db.QueryRowContext(ctx, query, domain.DateOnly(date))

	record, err := scanActivityRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrActivityNotFound
		}
		return nil, MapError(err)
	}

	return record, nil
}

// GetRange implements store.ActivityStore.GetRange
func (s *PostgresActivityStore) GetRange(ctx context.Context, from, to time.Time) ([]*domain.DailyActivityRecord, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM daily_activity
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC
	`

	rows, err := s.db.QueryContext(ctx, query, domain.DateOnly(from), domain.DateOnly(to))
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var records []*domain.DailyActivityRecord
	for rows.Next() {
		var record domain.DailyActivityRecord
		err := rows.Scan(
			&record.Date,
			&record.TotalSeconds,
			&record.XPEarned,
			&record.WordsLearned,
			&record.ExercisesCompleted,
			&record.SessionsCount,
			&record.Active,
		)
		if err != nil {
			return nil, MapError(err)
		}
		record.Date = domain.DateOnly(record.Date)
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return records, nil
}

// ActiveDays implements store.ActivityStore.ActiveDays
func (s *PostgresActivityStore) ActiveDays(ctx context.Context, upTo time.Time) (map[time.Time]bool, error) {
	query := `SELECT date FROM daily_activity WHERE active AND date <= $1`

	rows, err := s.db.QueryContext(ctx, query, domain.DateOnly(upTo))
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	days := make(map[time.Time]bool)
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, MapError(err)
		}
		days[domain.DateOnly(day)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return days, nil
}

func scanActivityRecord(row *sql.Row) (*domain.DailyActivityRecord, error) {
	var record domain.DailyActivityRecord
	err := row.Scan(
		&record.Date,
		&record.TotalSeconds,
		&record.XPEarned,
		&record.WordsLearned,
		&record.ExercisesCompleted,
		&record.SessionsCount,
		&record.Active,
	)
	if err != nil {
		return nil, err
	}
	record.Date = domain.DateOnly(record.Date)
	return &record, nil
}
