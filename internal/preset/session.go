package preset

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"modelshare/internal/blob"
	"modelshare/internal/logging"
	"modelshare/internal/transform"
)

// Phase is the editing phase of a Session.
type Phase int

const (
	// Editing is the normal phase; the live pose may differ from slot 0.
	Editing Phase = iota
	// SavedAndReset follows a capture: the pose was saved and the live pose
	// was reset to slot 0.
	SavedAndReset
)

func (p Phase) String() string {
	if p == SavedAndReset {
		return "saved-and-reset"
	}
	return "editing"
}

// Transition describes one phase change. Slot is the slot involved, or -1.
type Transition struct {
	From Phase
	To   Phase
	Slot int
}

// Session owns the preset set of one project while a model is open.
type Session struct {
	project string
	store   *Store
	state   *transform.State
	logger  *zap.Logger
	observe func(Transition)

	mu     sync.Mutex
	set    Set
	phase  Phase
	source Source
}

type SessionOption func(*Session)

// OnTransition registers fn to observe phase changes. fn runs synchronously
// and must not call back into the Session.
func OnTransition(fn func(Transition)) SessionOption {
	return func(s *Session) { s.observe = fn }
}

func WithSessionLogger(l *zap.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open starts a session for a freshly loaded model. The live pose of state
// becomes slot 0 and slots 1-3 come from store.Load.
func Open(ctx context.Context, project string, store *Store, state *transform.State, opts ...SessionOption) (*Session, error) {
	if err := blob.ValidateProject(project); err != nil {
		return nil, err
	}
	s := &Session{project: project, store: store, state: state, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.Component(s.logger, "preset-session").With(zap.String("project", project))

	set, src := store.Load(ctx, project)
	original := state.Transform()
	set[OriginalSlot] = &original
	s.set = set
	s.source = src
	return s, nil
}

func (s *Session) Project() string { return s.project }

// Source is the tier the preset set was loaded from.
func (s *Session) Source() Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Presets returns a copy of all four slots, slot 0 included.
func (s *Session) Presets() Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Clone()
}

// Original is the pose captured when the model was loaded.
func (s *Session) Original() transform.Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.set[OriginalSlot]
}

// Capture saves the live pose into slot, resets the live pose to slot 0 and
// starts syncing the whole set in the background. Overlapping syncs are not
// ordered; the last one to reach the store wins.
func (s *Session) Capture(ctx context.Context, slot int) (*SyncHandle, error) {
	if !validSlot(slot) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	live := s.state.Transform()

	s.mu.Lock()
	var transitions []Transition
	if s.phase == SavedAndReset {
		transitions = append(transitions, Transition{From: SavedAndReset, To: Editing, Slot: slot})
	}
	s.set[slot] = &live
	snapshot := s.set.Clone()
	original := *s.set[OriginalSlot]
	s.phase = SavedAndReset
	transitions = append(transitions, Transition{From: Editing, To: SavedAndReset, Slot: slot})
	s.mu.Unlock()

	s.state.Set(original)
	s.notify(transitions...)
	s.logger.Debug("preset captured", zap.Int("slot", slot), zap.Stringer("pose", live))

	return startSync(ctx, slot, func(ctx context.Context) error {
		return s.store.Sync(ctx, s.project, snapshot)
	}), nil
}

// Recall applies slot to the live pose. Empty slots are a no-op and report
// false. Slot 0 restores the load-time pose.
func (s *Session) Recall(slot int) (bool, error) {
	if slot < OriginalSlot || slot > LastSlot {
		return false, fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	s.mu.Lock()
	t := s.set[slot]
	if t == nil {
		s.mu.Unlock()
		return false, nil
	}
	pose := *t
	tr := s.resumeLocked(slot)
	s.mu.Unlock()

	s.state.Set(pose)
	s.notify(tr...)
	return true, nil
}

// Resume leaves the SavedAndReset phase.
func (s *Session) Resume() {
	s.mu.Lock()
	tr := s.resumeLocked(-1)
	s.mu.Unlock()
	s.notify(tr...)
}

func (s *Session) resumeLocked(slot int) []Transition {
	if s.phase != SavedAndReset {
		return nil
	}
	s.phase = Editing
	return []Transition{{From: SavedAndReset, To: Editing, Slot: slot}}
}

func (s *Session) notify(ts ...Transition) {
	if s.observe == nil {
		return
	}
	for _, t := range ts {
		s.observe(t)
	}
}
