package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// AudioURLRepository persists resolved audio URLs in the audio_urls table.
type AudioURLRepository struct {
	db  *sql.DB
	now Clock
}

// NewAudioURLRepository creates a new AudioURLRepository with the given database connection
func NewAudioURLRepository(db *sql.DB) *AudioURLRepository {
	return &AudioURLRepository{db: db, now: utcNow}
}

// Get returns the unexpired URL stored for videoID.
func (r *AudioURLRepository) Get(ctx context.Context, videoID string) (string, bool, error) {
	query := `
		SELECT url, expires_at
		FROM audio_urls
		WHERE video_id = ?
	`

	var (
		url       string
		expiresAt time.Time
	)
	err := r.db.QueryRowContext(ctx, query, videoID).Scan(&url, &expiresAt)
	if notFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get audio url: %w", err)
	}

	if !expiresAt.After(r.now()) {
		return "", false, nil
	}
	return url, true, nil
}

// Put stores url for videoID, replacing any previous value.
func (r *AudioURLRepository) Put(ctx context.Context, videoID, url string, ttl time.Duration) error {
	now := r.now()
	query := `
		INSERT INTO audio_urls (video_id, url, resolved_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(video_id) DO UPDATE SET
			url = excluded.url,
			resolved_at = excluded.resolved_at,
			expires_at = excluded.expires_at
	`

	if _, err := r.db.ExecContext(ctx, query, videoID, url, now, now.Add(ttl)); err != nil {
		return fmt.Errorf("failed to store audio url: %w", err)
	}
	return nil
}

// Count returns the number of stored rows, expired or not.
func (r *AudioURLRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM audio_urls").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count audio urls: %w", err)
	}
	return n, nil
}

// Prune deletes expired rows.
func (r *AudioURLRepository) Prune() (int64, error) {
	return deleteExpired(r.db, "audio_urls", r.now())
}

// Clear deletes every row.
func (r *AudioURLRepository) Clear() (int64, error) {
	return deleteAll(r.db, "audio_urls")
}
