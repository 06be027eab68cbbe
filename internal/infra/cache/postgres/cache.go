// Package postgres stores the local cache mirror in a Postgres table, for
// deployments where several editor hosts share one mirror.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"modelshare/internal/cache/core"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/modelshare?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// OverrideSQLOpen swaps the sql.Open hook for tests and returns a restore func.
func OverrideSQLOpen(fn func(driverName, dsn string) (*sql.DB, error)) func() {
	openMu.Lock()
	prev := sqlOpen
	sqlOpen = fn
	openMu.Unlock()
	return func() {
		openMu.Lock()
		sqlOpen = prev
		openMu.Unlock()
	}
}

type Cache struct {
	db *sql.DB
}

// New connects using dsn (falls back to defaultDSN) and ensures the cache table exists.
func New(ctx context.Context, dsn string) (*Cache, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS modelshare_cache (
		cache_key TEXT PRIMARY KEY,
		payload BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure cache table: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Driver() core.Driver { return core.DriverPostgres }

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := c.db.QueryRowContext(ctx, `SELECT payload FROM modelshare_cache WHERE cache_key = $1`, key).Scan(&payload)
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
	_, err := c.db.ExecContext(ctx, `INSERT INTO modelshare_cache (cache_key, payload) VALUES ($1, $2)
		ON CONFLICT (cache_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`, key, value)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (c *Cache) Close() error { return c.db.Close() }
