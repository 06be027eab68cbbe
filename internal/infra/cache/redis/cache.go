// Package redis backs the local cache mirror with a redis server.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"modelshare/internal/cache/core"
)

// Config holds connection settings.
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

type Cache struct {
	client *redis.Client
	prefix string
}

// New connects and pings the server.
func New(ctx context.Context, cfg Config) (*Cache, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return &Cache{client: client, prefix: cfg.KeyPrefix}, nil
}

func (c *Cache) Driver() core.Driver { return core.DriverRedis }

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("cache %s: %w", key, core.ErrMiss)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Set stores value without expiry; the mirror lives until overwritten.
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, c.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *Cache) Close() error { return c.client.Close() }
