package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS weather_cache (
	kind       TEXT NOT NULL,
	lat        REAL NOT NULL,
	lon        REAL NOT NULL,
	payload    BLOB NOT NULL,
	expires_at INTEGER NOT NULL,
	PRIMARY KEY (kind, lat, lon)
);`

// Store is a SQLite backed TTL cache for upstream weather payloads, keyed by
// payload kind and coordinate.
type Store struct {
	db    *sql.DB
	clock clockwork.Clock
}

// Open opens or creates a cache database at path.
func Open(path string, clock clockwork.Clock) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	return &Store{db: db, clock: clock}, nil
}

// Get returns the cached payload for a key, or false when absent or expired.
// Expired rows are deleted on read.
func (s *Store) Get(ctx context.Context, kind string, lat, lon float64) ([]byte, bool, error) {
	var payload []byte
	var expiresAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, expires_at FROM weather_cache WHERE kind = ? AND lat = ? AND lon = ?`,
		kind, lat, lon,
	).Scan(&payload, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache row: %w", err)
	}

	if s.clock.Now().Unix() >= expiresAt {
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM weather_cache WHERE kind = ? AND lat = ? AND lon = ?`,
			kind, lat, lon,
		); err != nil {
			return nil, false, fmt.Errorf("delete expired cache row: %w", err)
		}
		return nil, false, nil
	}
	return payload, true, nil
}

// Put stores a payload with the given time to live, replacing any prior row.
func (s *Store) Put(ctx context.Context, kind string, lat, lon float64, payload []byte, ttl time.Duration) error {
	expiresAt := s.clock.Now().Add(ttl).Unix()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO weather_cache (kind, lat, lon, payload, expires_at) VALUES (?, ?, ?, ?, ?)`,
		kind, lat, lon, payload, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("write cache row: %w", err)
	}
	return nil
}

// CheckReadiness verifies the database is reachable.
func (s *Store) CheckReadiness(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("cache database not ready: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
