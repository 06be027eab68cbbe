// Package core defines the local cache mirror contract shared by the cache
// facade and its infra drivers.
package core

import (
	"context"
	"errors"
)

// Driver identifies a cache backend.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverRedis    Driver = "redis"
)

// ErrMiss is returned by Get when no value is stored for the key.
var ErrMiss = errors.New("cache: miss")

// Cache is a durable key/value mirror of documents also held in the Blob Store.
// Set replaces any previous value.
type Cache interface {
	Driver() Driver
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
