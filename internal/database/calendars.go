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

// CalendarRepository handles calendar database operations. A calendar is one
// whole document per user: the entries map is stored as a single JSONB value
// and rewritten on every save. Two concurrent saves for the same user race
// and the last writer wins; there is no version column on purpose.
type CalendarRepository struct {
	db *DB
}

// NewCalendarRepository creates a new calendar repository.
func NewCalendarRepository(db *DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// GetByUserID retrieves a user's calendar. Returns a NotFound error when the
// user has never written anything.
func (r *CalendarRepository) GetByUserID(ctx context.Context, userID string) (*models.Calendar, error) {
	cal := &models.Calendar{}
	var personalityType, platform sql.NullString
	var entriesJSON []byte

	query := `
		SELECT user_id, personality_type, platform, entries, created_at, updated_at
		FROM calendars
		WHERE user_id = $1
	`

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&cal.UserID,
		&personalityType,
		&platform,
		&entriesJSON,
		&cal.CreatedAt,
		&cal.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Wrap(apperr.NotFound, "calendar not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar: %w", err)
	}

	cal.PersonalityType = personalityType.String
	cal.Platform = platform.String

	if len(entriesJSON) > 0 {
		if err := json.Unmarshal(entriesJSON, &cal.Entries); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entries: %w", err)
		}
	}
	if cal.Entries == nil {
		cal.Entries = make(map[string]*models.Entry)
	}

	return cal, nil
}

// GetAll retrieves every calendar. Used by the insight endpoints and the
// statistics rebuild worker.
func (r *CalendarRepository) GetAll(ctx context.Context) ([]*models.Calendar, error) {
	query := `
		SELECT user_id, personality_type, platform, entries, created_at, updated_at
		FROM calendars
		ORDER BY user_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendars: %w", err)
	}
	defer rows.Close()

	var calendars []*models.Calendar
	for rows.Next() {
		cal := &models.Calendar{}
		var personalityType, platform sql.NullString
		var entriesJSON []byte

		if err := rows.Scan(&cal.UserID, &personalityType, &platform, &entriesJSON, &cal.CreatedAt, &cal.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan calendar: %w", err)
		}
		cal.PersonalityType = personalityType.String
		cal.Platform = platform.String
		if len(entriesJSON) > 0 {
			if err := json.Unmarshal(entriesJSON, &cal.Entries); err != nil {
				return nil, fmt.Errorf("failed to unmarshal entries: %w", err)
			}
		}
		if cal.Entries == nil {
			cal.Entries = make(map[string]*models.Entry)
		}
		calendars = append(calendars, cal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating calendars: %w", err)
	}

	return calendars, nil
}

// Save upserts the whole calendar document.
func (r *CalendarRepository) Save(ctx context.Context, cal *models.Calendar) error {
	query := `
		INSERT INTO calendars (user_id, personality_type, platform, entries, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET personality_type = EXCLUDED.personality_type,
		    platform = EXCLUDED.platform,
		    entries = EXCLUDED.entries,
		    updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`

	entriesJSON, err := json.Marshal(cal.Entries)
	if err != nil {
		return fmt.Errorf("failed to marshal entries: %w", err)
	}

	now := time.Now()
	err = r.db.QueryRowContext(ctx, query,
		cal.UserID,
		nullString(cal.PersonalityType),
		nullString(cal.Platform),
		entriesJSON,
		now,
	).Scan(&cal.CreatedAt, &cal.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to save calendar: %w", err)
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
