package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ResponseCache implements catalog.Store over the catalog_cache table.
//
// Payloads are opaque bytes; expired rows read as misses and are removed by [ResponseCache.Prune].
type ResponseCache struct {
	db  *sql.DB
	now Clock
}

// CacheStat summarizes the stored rows of one catalog operation.
type CacheStat struct {
	Operation string
	Entries   int
	Expired   int
	Bytes     int64
}

// NewResponseCache creates a new ResponseCache with the given database connection
func NewResponseCache(db *sql.DB) *ResponseCache {
	return &ResponseCache{db: db, now: utcNow}
}

// Load returns the payload stored under key, reporting false for missing or expired rows.
func (r *ResponseCache) Load(ctx context.Context, key string) ([]byte, bool, error) {
	query := `
		SELECT payload, expires_at
		FROM catalog_cache
		WHERE key = ?
	`

	var (
		payload   []byte
		expiresAt time.Time
	)
	err := r.db.QueryRowContext(ctx, query, key).Scan(&payload, &expiresAt)
	if notFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load cached response: %w", err)
	}

	if !expiresAt.After(r.now()) {
		return nil, false, nil
	}
	return payload, true, nil
}

// Save upserts payload under key for ttl.
func (r *ResponseCache) Save(ctx context.Context, key, operation string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	now := r.now()
	query := `
		INSERT INTO catalog_cache (key, operation, payload, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			operation = excluded.operation,
			payload = excluded.payload,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`

	if _, err := r.db.ExecContext(ctx, query, key, operation, payload, now, now.Add(ttl)); err != nil {
		return fmt.Errorf("failed to save cached response: %w", err)
	}
	return nil
}

// Prune deletes expired rows and returns how many were removed.
func (r *ResponseCache) Prune() (int64, error) {
	return deleteExpired(r.db, "catalog_cache", r.now())
}

// Clear deletes every row and returns how many were removed.
func (r *ResponseCache) Clear() (int64, error) {
	return deleteAll(r.db, "catalog_cache")
}

// Stats groups stored rows by operation, ordered by operation name.
func (r *ResponseCache) Stats() ([]CacheStat, error) {
	query := `
		SELECT operation, expires_at, LENGTH(payload)
		FROM catalog_cache
		ORDER BY operation ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache stats: %w", err)
	}
	defer rows.Close()

	now := r.now()
	var stats []CacheStat
	for rows.Next() {
		var (
			operation string
			expiresAt time.Time
			size      int64
		)
		if err := rows.Scan(&operation, &expiresAt, &size); err != nil {
			return nil, fmt.Errorf("failed to scan cache stats: %w", err)
		}

		if len(stats) == 0 || stats[len(stats)-1].Operation != operation {
			stats = append(stats, CacheStat{Operation: operation})
		}
		s := &stats[len(stats)-1]
		s.Entries++
		s.Bytes += size
		if !expiresAt.After(now) {
			s.Expired++
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return stats, nil
}
