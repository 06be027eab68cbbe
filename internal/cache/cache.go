// Package cache is the local cache mirror facade. Only this package imports
// the infra cache drivers; callers depend on the Cache interface.
package cache

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"modelshare/internal/cache/core"
	"modelshare/internal/config"
	"modelshare/internal/infra/cache/memory"
	"modelshare/internal/infra/cache/postgres"
	"modelshare/internal/infra/cache/redis"
	"modelshare/internal/infra/cache/sqlite"
	"modelshare/internal/logging"
)

type (
	// Cache is the local cache mirror contract.
	Cache = core.Cache
	// Driver identifies a cache backend.
	Driver = core.Driver
)

const (
	DriverMemory   = core.DriverMemory
	DriverSQLite   = core.DriverSQLite
	DriverPostgres = core.DriverPostgres
	DriverRedis    = core.DriverRedis
)

// ErrMiss is wrapped by Get when the key holds no value.
var ErrMiss = core.ErrMiss

// NewMemory returns an in-process cache.
func NewMemory() Cache { return memory.New() }

// Open selects a cache driver from configuration:
//
//	MODELSHARE_CACHE_DRIVER: memory|sqlite|postgres|redis (default sqlite)
//	MODELSHARE_CACHE_SQLITE_PATH: database file (default ./modelshare-cache.db)
//	MODELSHARE_CACHE_POSTGRES_DSN: connection string for postgres
//	MODELSHARE_CACHE_REDIS_ADDR / _PASSWORD / _DB / _KEY_PREFIX
func Open(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	driver := Driver(cfg.Driver)
	if driver == "" {
		driver = DriverSQLite
	}
	var (
		c   Cache
		err error
	)
	switch driver {
	case DriverMemory:
		c = memory.New()
	case DriverSQLite:
		c, err = sqlite.New(ctx, cfg.SQLitePath)
	case DriverPostgres:
		c, err = postgres.New(ctx, cfg.PostgresDSN)
	case DriverRedis:
		c, err = redis.New(ctx, redis.Config{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown cache driver %s", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", driver, err)
	}
	logging.Component(logger, "cache").Debug("cache opened", zap.String("driver", string(driver)))
	return c, nil
}
