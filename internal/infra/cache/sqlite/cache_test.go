package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"modelshare/internal/cache/core"
)

func TestCachePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "cache.db")
	c, err := New(ctx, path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if c.Path() != path || c.Driver() != core.DriverSQLite {
		t.Fatalf("unexpected path/driver %s %s", c.Path(), c.Driver())
	}
	if _, err := c.Get(ctx, "projects/demo/transform-presets.json"); !errors.Is(err, core.ErrMiss) {
		t.Fatalf("expected miss, got %v", err)
	}
	if err := c.Set(ctx, "projects/demo/transform-presets.json", []byte(`[null,null,null,null]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Set(ctx, "projects/demo/transform-presets.json", []byte(`[null]`)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := New(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	got, err := reopened.Get(ctx, "projects/demo/transform-presets.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `[null]` {
		t.Fatalf("expected last write, got %s", got)
	}
}

func TestCacheEmptyValue(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = c.Close() }()
	if err := c.Set(ctx, "empty", nil); err != nil {
		t.Fatalf("set nil: %v", err)
	}
	got, err := c.Get(ctx, "empty")
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty hit, got %q %v", got, err)
	}
}
