// Package history keeps an append-only log of check observations in
// SQLite, so stock behavior over time can be inspected after the fact.
package history

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ecomwatch/restock/pkg/watch"
)

type DB struct {
	sql *sql.DB
}

// Open opens (and if needed creates) the history database at path.
func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS observations (
  id           INTEGER PRIMARY KEY,
  watch_key    TEXT NOT NULL,
  in_stock     INTEGER NOT NULL CHECK (in_stock IN (0,1)),
  reason       TEXT NOT NULL,
  resolved_url TEXT,
  checked_at   DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_observations_key_time ON observations(watch_key, checked_at);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// Record appends one observation under the given watch key.
func (d *DB) Record(ctx context.Context, key string, obs watch.Observation) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO observations(watch_key, in_stock, reason, resolved_url, checked_at) VALUES(?,?,?,?,?)`,
		key, boolToInt(obs.InStock), obs.Reason, nullIfEmpty(obs.ResolvedURL),
		obs.CheckedAt.UTC().Format(time.RFC3339))
	return err
}

// Row is one recorded observation.
type Row struct {
	ID          int64
	WatchKey    string
	InStock     bool
	Reason      string
	ResolvedURL string
	CheckedAt   time.Time
}

// ListRecent returns the most recent observations, newest first. An
// empty key matches every watch; limit <= 0 defaults to 50.
func (d *DB) ListRecent(ctx context.Context, key string, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, watch_key, in_stock, reason, resolved_url, checked_at FROM observations`
	args := []interface{}{}
	if key != "" {
		query += ` WHERE watch_key = ?`
		args = append(args, key)
	}
	query += ` ORDER BY checked_at DESC, id DESC LIMIT ?`
	args = append(args, limit)
	return d.queryRows(ctx, query, args...)
}

// ListTransitions returns only the observations where in_stock flipped
// relative to the previous observation of the same key, newest first.
func (d *DB) ListTransitions(ctx context.Context, key string, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
SELECT id, watch_key, in_stock, reason, resolved_url, checked_at FROM (
  SELECT id, watch_key, in_stock, reason, resolved_url, checked_at,
         LAG(in_stock) OVER (PARTITION BY watch_key ORDER BY checked_at, id) AS prev_in_stock
  FROM observations
)
WHERE (prev_in_stock IS NULL OR prev_in_stock != in_stock)`
	args := []interface{}{}
	if key != "" {
		query += ` AND watch_key = ?`
		args = append(args, key)
	}
	query += ` ORDER BY checked_at DESC, id DESC LIMIT ?`
	args = append(args, limit)
	return d.queryRows(ctx, query, args...)
}

func (d *DB) queryRows(ctx context.Context, query string, args ...interface{}) ([]Row, error) {
	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var (
			r       Row
			inStock int
			resURL  sql.NullString
			ts      string
		)
		if err := rows.Scan(&r.ID, &r.WatchKey, &inStock, &r.Reason, &resURL, &ts); err != nil {
			return nil, err
		}
		r.InStock = inStock == 1
		r.ResolvedURL = resURL.String
		r.CheckedAt = parseTime(ts)
		out = append(out, r)
	}
	return out, rows.Err()
}

// parseTime tolerates both the RFC3339 stamps this package writes and
// the space-separated form SQLite produces for DATETIME defaults.
func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
