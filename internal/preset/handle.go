package preset

import (
	"context"
	"sync"
)

// SyncHandle tracks one background preset sync started by Capture. Callers
// may wait on it, cancel it, or drop it.
type SyncHandle struct {
	slot   int
	done   chan struct{}
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

func startSync(ctx context.Context, slot int, fn func(context.Context) error) *SyncHandle {
	ctx, cancel := context.WithCancel(ctx)
	h := &SyncHandle{slot: slot, done: make(chan struct{}), cancel: cancel}
	go func() {
		defer cancel()
		err := fn(ctx)
		h.mu.Lock()
		h.err = err
		h.mu.Unlock()
		close(h.done)
	}()
	return h
}

// Slot is the slot whose capture started this sync.
func (h *SyncHandle) Slot() int { return h.slot }

// Done is closed when the sync finishes.
func (h *SyncHandle) Done() <-chan struct{} { return h.done }

// Err is the sync result; nil while still running.
func (h *SyncHandle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Wait blocks until the sync finishes or ctx ends. Ending ctx does not cancel
// the sync itself.
func (h *SyncHandle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel aborts the sync if still in flight. Writes already accepted by the
// store are not undone.
func (h *SyncHandle) Cancel() { h.cancel() }
