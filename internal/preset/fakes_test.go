package preset

import (
	"context"
	"errors"
	"io"
	"sync"

	"modelshare/internal/blob"
	"modelshare/internal/cache"
)

var errOffline = errors.New("network unreachable")

// flakyBlobs wraps the memory store with switchable failures.
type flakyBlobs struct {
	blob.Store
	mu      sync.Mutex
	failGet bool
	failPut bool
	block   chan struct{} // when set, Put waits for it or ctx
}

func newFlakyBlobs() *flakyBlobs { return &flakyBlobs{Store: blob.NewMemory()} }

func (f *flakyBlobs) Get(ctx context.Context, key string) (blob.Info, io.ReadCloser, error) {
	f.mu.Lock()
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return blob.Info{}, nil, errOffline
	}
	return f.Store.Get(ctx, key)
}

func (f *flakyBlobs) Put(ctx context.Context, key string, r io.Reader, opts blob.PutOptions) (blob.Info, error) {
	f.mu.Lock()
	fail, block := f.failPut, f.block
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return blob.Info{}, ctx.Err()
		}
	}
	if fail {
		return blob.Info{}, errOffline
	}
	return f.Store.Put(ctx, key, r, opts)
}

type brokenCache struct{}

func (brokenCache) Driver() cache.Driver { return cache.DriverMemory }
func (brokenCache) Get(context.Context, string) ([]byte, error) {
	return nil, errOffline
}
func (brokenCache) Set(context.Context, string, []byte) error { return errOffline }
func (brokenCache) Close() error                              { return nil }
