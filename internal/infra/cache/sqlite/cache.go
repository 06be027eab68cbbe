// Package sqlite persists the local cache mirror in a single SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"modelshare/internal/cache/core"
)

// DefaultPath is used when no database path is configured.
const DefaultPath = "modelshare-cache.db"

type Cache struct {
	db   *sql.DB
	path string
}

// New opens (creating if needed) the SQLite database at path.
func New(ctx context.Context, path string) (*Cache, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single writer keeps concurrent background syncs from hitting SQLITE_BUSY
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS cache_entries (
		cache_key TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache table: %w", err)
	}
	return &Cache{db: db, path: path}, nil
}

func (c *Cache) Driver() core.Driver { return core.DriverSQLite }

// Path returns the database file location.
func (c *Cache) Path() string { return c.path }

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := c.db.QueryRowContext(ctx, `SELECT payload FROM cache_entries WHERE cache_key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cache %s: %w", key, core.ErrMiss)
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return payload, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := c.db.ExecContext(ctx, `INSERT INTO cache_entries (cache_key, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (c *Cache) Close() error { return c.db.Close() }
