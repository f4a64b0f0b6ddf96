package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/phrazzld/lernbuddy/internal/domain"
	"github.com/phrazzld/lernbuddy/internal/platform/logger"
	"github.com/phrazzld/lernbuddy/internal/store"
)

// singletonStatsID pins the user_stats table to a single row; the table
// carries a CHECK (id = 1) constraint to the same effect.
const singletonStatsID = 1

const userStatsColumns = `total_xp, current_level, streak_days, longest_streak,
	last_activity_date, total_seconds_studied, current_cefr_level,
	sessions_completed, perfect_scores, created_at, updated_at`

// PostgresUserStatsStore implements the store.UserStatsStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStatsStore struct {
	db store.DBTX
}

// NewPostgresUserStatsStore creates a new PostgreSQL implementation of the
// UserStatsStore interface.
func NewPostgresUserStatsStore(db store.DBTX) *PostgresUserStatsStore {
	return &PostgresUserStatsStore{
		db: db,
	}
}

// Ensure PostgresUserStatsStore implements store.UserStatsStore interface
var _ store.UserStatsStore = (*PostgresUserStatsStore)(nil)

// WithTx implements store.UserStatsStore.WithTx
func (s *PostgresUserStatsStore) WithTx(tx *sql.Tx) store.UserStatsStore {
	return NewPostgresUserStatsStore(tx)
}

// Get implements store.UserStatsStore.Get
func (s *PostgresUserStatsStore) Get(ctx context.Context) (*domain.UserStats, error) {
	stats, err := s.get(ctx, false)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if err := s.insertDefault(ctx); err != nil {
		return nil, err
	}
	return s.get(ctx, false)
}

// GetForUpdate implements store.UserStatsStore.GetForUpdate
func (s *PostgresUserStatsStore) GetForUpdate(ctx context.Context) (*domain.UserStats, error) {
	stats, err := s.get(ctx, true)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if err := s.insertDefault(ctx); err != nil {
		return nil, err
	}
	return s.get(ctx, true)
}

func (s *PostgresUserStatsStore) get(ctx context.Context, forUpdate bool) (*domain.UserStats, error) {
	query := `SELECT ` + userStatsColumns + ` FROM user_stats WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var stats domain.UserStats
	err := s.db.QueryRowContext(ctx, query, singletonStatsID).Scan(
		&stats.TotalXP,
		&stats.CurrentLevel,
		&stats.StreakDays,
		&stats.LongestStreak,
		&stats.LastActivityDate,
		&stats.TotalSecondsStudied,
		&stats.CurrentCEFRLevel,
		&stats.SessionsCompleted,
		&stats.PerfectScores,
		&stats.CreatedAt,
		&stats.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserStatsNotFound
		}
		return nil, MapError(err)
	}

	return &stats, nil
}

func (s *PostgresUserStatsStore) insertDefault(ctx context.Context) error {
	log := logger.FromContext(ctx)

	defaults := domain.NewUserStats()

	// Concurrent first calls may race to create the row; DO NOTHING makes
	// the loser fall through to the re-read.
	query := `
		INSERT INTO user_stats (id, ` + userStatsColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query,
		singletonStatsID,
		defaults.TotalXP,
		defaults.CurrentLevel,
		defaults.StreakDays,
		defaults.LongestStreak,
		defaults.LastActivityDate,
		defaults.TotalSecondsStudied,
		defaults.CurrentCEFRLevel,
		defaults.SessionsCompleted,
		defaults.PerfectScores,
		defaults.CreatedAt,
		defaults.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create default user stats", "error", err)
		return MapError(err)
	}

	return nil
}

// Update implements store.UserStatsStore.Update
func (s *PostgresUserStatsStore) Update(ctx context.Context, stats *domain.UserStats) error {
	log := logger.FromContext(ctx)

	query := `
		UPDATE user_stats
		SET total_xp = $2,
			current_level = $3,
			streak_days = $4,
			longest_streak = $5,
			last_activity_date = $6,
			total_seconds_studied = $7,
			current_cefr_level = $8,
			sessions_completed = $9,
			perfect_scores = $10,
			updated_at = $11
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query,
		singletonStatsID,
		stats.TotalXP,
		stats.CurrentLevel,
		stats.StreakDays,
		stats.LongestStreak,
		stats.LastActivityDate,
		stats.TotalSecondsStudied,
		stats.CurrentCEFRLevel,
		stats.SessionsCompleted,
		stats.PerfectScores,
		time.Now().UTC(),
	)
	if err != nil {
		log.Error("failed to update user stats", "error", err)
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrUserStatsNotFound)
}
