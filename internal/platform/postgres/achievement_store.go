package postgres

import (
	"context"
	"database/sql"

	"github.com/phrazzld/lernbuddy/internal/domain"
	"github.com/phrazzld/lernbuddy/internal/platform/logger"
	"github.com/phrazzld/lernbuddy/internal/store"
)

const achievementColumns = `name, title, description, category, requirement,
	xp_reward, icon, progress, unlocked_at`

// PostgresAchievementStore implements the store.AchievementStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAchievementStore struct {
	db store.DBTX
}

// NewPostgresAchievementStore creates a new PostgreSQL implementation of the
// AchievementStore interface.
func NewPostgresAchievementStore(db store.DBTX) *PostgresAchievementStore {
	return &PostgresAchievementStore{
		db: db,
	}
}

// Ensure PostgresAchievementStore implements store.AchievementStore interface
var _ store.AchievementStore = (*PostgresAchievementStore)(nil)

// WithTx implements store.AchievementStore.WithTx
func (s *PostgresAchievementStore) WithTx(tx *sql.Tx) store.AchievementStore {
	return NewPostgresAchievementStore(tx)
}

// Seed implements store.AchievementStore.Seed
func (s *PostgresAchievementStore) Seed(ctx context.Context, catalog []*domain.Achievement) error {
	log := logger.FromContext(ctx)

	// DO NOTHING keeps earned progress when the catalog is re-seeded on
	// startup.
	query := `
		INSERT INTO achievements (` + achievementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (name) DO NOTHING
	`

	for _, a := range catalog {
		_, err := s.db.ExecContext(ctx, query,
			a.Name,
			a.Title,
			a.Description,
			a.Category,
			a.Requirement,
			a.XPReward,
			a.Icon,
			a.Progress,
			a.UnlockedAt,
		)
		if err != nil {
			log.Error("failed to seed achievement",
				"achievement", a.Name,
				"error", err)
			return MapError(err)
		}
	}

	return nil
}

// GetAll implements store.AchievementStore.GetAll
func (s *PostgresAchievementStore) GetAll(ctx context.Context) ([]*domain.Achievement, error) {
	query := `SELECT ` + achievementColumns + ` FROM achievements ORDER BY category, requirement`
	return s.query(ctx, query)
}

// GetUnlocked implements store.AchievementStore.GetUnlocked
func (s *PostgresAchievementStore) GetUnlocked(ctx context.Context) ([]*domain.Achievement, error) {
	query := `
		SELECT ` + achievementColumns + `
		FROM achievements
		WHERE unlocked_at IS NOT NULL
		ORDER BY unlocked_at DESC
	`
	return s.query(ctx, query)
}

func (s *PostgresAchievementStore) query(ctx context.Context, query string) ([]*domain.Achievement, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var achievements []*domain.Achievement
	for rows.Next() {
		var a domain.Achievement
		err := rows.Scan(
			&a.Name,
			&a.Title,
			&a.Description,
			&a.Category,
			&a.Requirement,
			&a.XPReward,
			&a.Icon,
			&a.Progress,
			&a.UnlockedAt,
		)
		if err != nil {
			return nil, MapError(err)
		}
		achievements = append(achievements, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return achievements, nil
}

// Update implements store.AchievementStore.Update
func (s *PostgresAchievementStore) Update(ctx context.Context, achievement *domain.Achievement) error {
	log := logger.FromContext(ctx)

	// COALESCE keeps an existing unlock timestamp even if a caller passes a
	// stale locked copy: unlocks are permanent.
	query := `
		UPDATE achievements
		SET progress = GREATEST(progress, $2),
			unlocked_at = COALESCE(unlocked_at, $3)
		WHERE name = $1
	`

	result, err := s.db.ExecContext(ctx, query,
		achievement.Name,
		achievement.Progress,
		achievement.UnlockedAt,
	)
	if err != nil {
		log.Error("failed to update achievement",
			"achievement", achievement.Name,
			"error", err)
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrAchievementNotFound)
}
