package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/moodcal/moodcal-api/internal/apperr"
	"github.com/moodcal/moodcal-api/internal/models"
)

// EmotionStatsRepository stores per-title emotion tallies, grouped by the
// personality type of the viewers who reported them. The nested counter map
// is a single JSONB column, same read-modify-write shape as calendars.
type EmotionStatsRepository struct {
	db *DB
}

// NewEmotionStatsRepository creates a new emotion statistics repository.
func NewEmotionStatsRepository(db *DB) *EmotionStatsRepository {
	return &EmotionStatsRepository{db: db}
}

// GetByTitle retrieves the statistics document for a title. Returns NotFound
// when the title has never been recommended.
func (r *EmotionStatsRepository) GetByTitle(ctx context.Context, title string) (*models.EmotionStats, error) {
	stats := &models.EmotionStats{}
	var emotionsJSON []byte

	query := `
		SELECT title, personality_emotions, created_at, updated_at
		FROM emotion_stats
		WHERE title = $1
	`

	err := r.db.QueryRowContext(ctx, query, title).Scan(
		&stats.Title,
		&emotionsJSON,
		&stats.CreatedAt,
		&stats.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Wrap(apperr.NotFound, "statistics not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get emotion stats: %w", err)
	}

	if len(emotionsJSON) > 0 {
		if err := json.Unmarshal(emotionsJSON, &stats.PersonalityEmotions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal emotion stats: %w", err)
		}
	}
	if stats.PersonalityEmotions == nil {
		stats.PersonalityEmotions = make(map[string]map[string]int)
	}

	return stats, nil
}

// GetByTitleOrCreate retrieves the statistics document for a title, or an
// empty one ready to be filled when none exists yet.
func (r *EmotionStatsRepository) GetByTitleOrCreate(ctx context.Context, title string) (*models.EmotionStats, error) {
	stats, err := r.GetByTitle(ctx, title)
	if apperr.IsNotFound(err) {
		return models.NewEmotionStats(title), nil
	}
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// GetAll retrieves every statistics document.
func (r *EmotionStatsRepository) GetAll(ctx context.Context) ([]*models.EmotionStats, error) {
	query := `
		SELECT title, personality_emotions, created_at, updated_at
		FROM emotion_stats
		ORDER BY title
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query emotion stats: %w", err)
	}
	defer rows.Close()

	var all []*models.EmotionStats
	for rows.Next() {
		stats := &models.EmotionStats{}
		var emotionsJSON []byte
		if err := rows.Scan(&stats.Title, &emotionsJSON, &stats.CreatedAt, &stats.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan emotion stats: %w", err)
		}
		if len(emotionsJSON) > 0 {
			if err := json.Unmarshal(emotionsJSON, &stats.PersonalityEmotions); err != nil {
				return nil, fmt.Errorf("failed to unmarshal emotion stats: %w", err)
			}
		}
		if stats.PersonalityEmotions == nil {
			stats.PersonalityEmotions = make(map[string]map[string]int)
		}
		all = append(all, stats)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating emotion stats: %w", err)
	}

	return all, nil
}

// Save upserts the whole statistics document for a title.
func (r *EmotionStatsRepository) Save(ctx context.Context, stats *models.EmotionStats) error {
	emotionsJSON, err := json.Marshal(stats.PersonalityEmotions)
	if err != nil {
		return fmt.Errorf("failed to marshal emotion stats: %w", err)
	}

	query := `
		INSERT INTO emotion_stats (title, personality_emotions, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (title) DO UPDATE
		SET personality_emotions = EXCLUDED.personality_emotions,
		    updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err = r.db.QueryRowContext(ctx, query, stats.Title, emotionsJSON, now).
		Scan(&stats.CreatedAt, &stats.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save emotion stats: %w", err)
	}

	return nil
}

// DeleteAll clears every statistics document. The rebuild worker calls this
// before recomputing from the calendars.
func (r *EmotionStatsRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM emotion_stats`); err != nil {
		return fmt.Errorf("failed to clear emotion stats: %w", err)
	}
	return nil
}
