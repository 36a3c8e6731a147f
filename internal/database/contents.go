package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/moodcal/moodcal-api/internal/apperr"
	"github.com/moodcal/moodcal-api/internal/models"
)

// ContentRepository handles the content catalog.
type ContentRepository struct {
	db *DB
}

// NewContentRepository creates a new content repository.
func NewContentRepository(db *DB) *ContentRepository {
	return &ContentRepository{db: db}
}

const contentColumns = `content_id, title, genre, platform, poster_url, synopsis, rating, runtime, country, year, release_date`

// FindByTitlePrefix returns the first catalog entry whose title starts with
// the given prefix, matched literally (LIKE metacharacters in the prefix are
// escaped). Returns NotFound when nothing matches.
func (r *ContentRepository) FindByTitlePrefix(ctx context.Context, prefix string) (*models.Content, error) {
	query := `
		SELECT ` + contentColumns + `
		FROM contents
		WHERE title LIKE $1 ESCAPE '\'
		ORDER BY content_id
		LIMIT 1
	`

	content := &models.Content{}
	err := r.db.QueryRowContext(ctx, query, escapeLikePattern(prefix)+"%").Scan(
		&content.ContentID,
		&content.Title,
		&content.Genre,
		&content.Platform,
		&content.PosterURL,
		&content.Synopsis,
		&content.Rating,
		&content.Runtime,
		&content.Country,
		&content.Year,
		&content.ReleaseDate,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Wrap(apperr.NotFound, "content not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find content: %w", err)
	}

	return content, nil
}

// GetAll retrieves the whole catalog ordered by content ID.
func (r *ContentRepository) GetAll(ctx context.Context) ([]*models.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents ORDER BY content_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query contents: %w", err)
	}
	defer rows.Close()

	var contents []*models.Content
	for rows.Next() {
		content := &models.Content{}
		if err := rows.Scan(
			&content.ContentID,
			&content.Title,
			&content.Genre,
			&content.Platform,
			&content.PosterURL,
			&content.Synopsis,
			&content.Rating,
			&content.Runtime,
			&content.Country,
			&content.Year,
			&content.ReleaseDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan content: %w", err)
		}
		contents = append(contents, content)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contents: %w", err)
	}

	return contents, nil
}

// UpsertBatch imports catalog entries in one transaction, replacing rows that
// share a content ID. Used by the admin import command.
func (r *ContentRepository) UpsertBatch(ctx context.Context, contents []*models.Content) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO contents (` + contentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (content_id) DO UPDATE
		SET title = EXCLUDED.title,
		    genre = EXCLUDED.genre,
		    platform = EXCLUDED.platform,
		    poster_url = EXCLUDED.poster_url,
		    synopsis = EXCLUDED.synopsis,
		    rating = EXCLUDED.rating,
		    runtime = EXCLUDED.runtime,
		    country = EXCLUDED.country,
		    year = EXCLUDED.year,
		    release_date = EXCLUDED.release_date
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, content := range contents {
		if _, err := stmt.ExecContext(ctx,
			content.ContentID,
			content.Title,
			content.Genre,
			content.Platform,
			content.PosterURL,
			content.Synopsis,
			content.Rating,
			content.Runtime,
			content.Country,
			content.Year,
			content.ReleaseDate,
		); err != nil {
			return fmt.Errorf("failed to upsert content %d: %w", content.ContentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	return nil
}

// escapeLikePattern escapes LIKE metacharacters so the pattern matches the
// input literally.
func escapeLikePattern(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '%', '_', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
