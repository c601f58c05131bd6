// package repositories provides the sqlite-backed cache tables.
package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Clock returns the current time. Tests replace it to move past expiries.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

// deleteExpired removes rows of table whose expires_at is at or before now.
func deleteExpired(db *sql.DB, table string, now time.Time) (int64, error) {
	result, err := db.Exec(fmt.Sprintf("DELETE FROM %s WHERE expires_at <= ?", table), now)
	if err != nil {
		return 0, fmt.Errorf("failed to prune %s: %w", table, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

// deleteAll empties table.
func deleteAll(db *sql.DB, table string) (int64, error) {
	result, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
	if err != nil {
		return 0, fmt.Errorf("failed to clear %s: %w", table, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

func notFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
