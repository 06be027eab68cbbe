// Package memory provides an in-process cache driver for tests and ephemeral sessions.
package memory

import (
	"context"
	"fmt"
	"sync"

	"modelshare/internal/cache/core"
)

type Cache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func New() *Cache { return &Cache{entries: make(map[string][]byte)} }

func (c *Cache) Driver() core.Driver { return core.DriverMemory }

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	if !ok {
		return nil, fmt.Errorf("cache %s: %w", key, core.ErrMiss)
	}
	return append([]byte(nil), v...), nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = append([]byte(nil), value...)
	return nil
}

func (c *Cache) Close() error { return nil }
