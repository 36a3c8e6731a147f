package database

import (
	"context"

	"github.com/moodcal/moodcal-api/internal/models"
)

// CalendarStore defines the interface for calendar persistence.
type CalendarStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.Calendar, error)
	GetAll(ctx context.Context) ([]*models.Calendar, error)
	Save(ctx context.Context, cal *models.Calendar) error
}

// ContentStore defines the interface for the content catalog.
type ContentStore interface {
	FindByTitlePrefix(ctx context.Context, prefix string) (*models.Content, error)
	GetAll(ctx context.Context) ([]*models.Content, error)
	UpsertBatch(ctx context.Context, contents []*models.Content) error
}

// EmotionStatsStore defines the interface for emotion statistics persistence.
type EmotionStatsStore interface {
	GetByTitle(ctx context.Context, title string) (*models.EmotionStats, error)
	GetByTitleOrCreate(ctx context.Context, title string) (*models.EmotionStats, error)
	GetAll(ctx context.Context) ([]*models.EmotionStats, error)
	Save(ctx context.Context, stats *models.EmotionStats) error
	DeleteAll(ctx context.Context) error
}

// Compile-time interface checks.
var (
	_ CalendarStore     = (*CalendarRepository)(nil)
	_ ContentStore      = (*ContentRepository)(nil)
	_ EmotionStatsStore = (*EmotionStatsRepository)(nil)
)
