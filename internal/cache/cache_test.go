package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelshare/internal/config"
)

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cases := []struct {
		cfg  config.CacheConfig
		want Driver
	}{
		{config.CacheConfig{Driver: "memory"}, DriverMemory},
		{config.CacheConfig{SQLitePath: filepath.Join(t.TempDir(), "c.db")}, DriverSQLite},
		{config.CacheConfig{Driver: "redis", Redis: config.RedisConfig{Addr: mr.Addr()}}, DriverRedis},
	}
	for _, tc := range cases {
		c, err := Open(ctx, tc.cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, tc.want, c.Driver())

		require.NoError(t, c.Set(ctx, "k", []byte("v")))
		got, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", string(got))
		_, err = c.Get(ctx, "missing")
		assert.True(t, errors.Is(err, ErrMiss))
		require.NoError(t, c.Close())
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.CacheConfig{Driver: "floppy"}, nil)
	require.Error(t, err)
}
