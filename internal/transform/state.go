package transform

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Slider ranges. Direct numeric entry is not limited by these.
const (
	PositionLimit = 10.0
	RotationLimit = 180.0
)

// Sensitivity scales the step of nudge controls. It never limits values.
type Sensitivity int

const (
	Low Sensitivity = iota
	High
)

// Step is the increment of one nudge for kind.
func (s Sensitivity) Step(k Kind) float64 {
	switch {
	case s == High && k == Rotation:
		return 5
	case s == High:
		return 0.1
	case k == Rotation:
		return 1
	default:
		return 0.01
	}
}

func (s Sensitivity) String() string {
	if s == High {
		return "high"
	}
	return "low"
}

// Clamp limits value to the slider range of kind.
func Clamp(k Kind, value float64) float64 {
	limit := PositionLimit
	if k == Rotation {
		limit = RotationLimit
	}
	return mgl64.Clamp(value, -limit, limit)
}

// Target receives the full pose after every edit. rotation is in radians.
type Target interface {
	ApplyTransform(position, rotation mgl64.Vec3)
}

// State is the live, editable pose of one object.
type State struct {
	mu          sync.Mutex
	current     Transform
	target      Target
	sensitivity Sensitivity
}

// NewState starts from initial and applies it to target, which may be nil.
func NewState(target Target, initial Transform) *State {
	s := &State{target: target, current: initial}
	s.mu.Lock()
	s.applyLocked()
	s.mu.Unlock()
	return s
}

func (s *State) applyLocked() {
	if s.target != nil {
		s.target.ApplyTransform(s.current.Position.Mgl(), s.current.Radians())
	}
}

// Transform returns a copy of the live pose.
func (s *State) Transform() Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set replaces the whole pose.
func (s *State) Set(t Transform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = t
	s.applyLocked()
}

// SetAxis writes one component as entered, without clamping.
func (s *State) SetAxis(k Kind, a Axis, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = s.current.with(k, a, value)
	s.applyLocked()
}

// Slide writes one component from a slider, clamped to the slider range, and
// returns the stored value.
func (s *State) Slide(k Kind, a Axis, value float64) float64 {
	v := Clamp(k, value)
	s.SetAxis(k, a, v)
	return v
}

// Nudge moves one component by steps increments of the current sensitivity,
// clamped to the slider range, and returns the stored value.
func (s *State) Nudge(k Kind, a Axis, steps int) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := Clamp(k, s.current.get(k, a)+float64(steps)*s.sensitivity.Step(k))
	s.current = s.current.with(k, a, v)
	s.applyLocked()
	return v
}

// Enter applies text typed into a numeric field. Text that is not a finite
// number leaves the pose untouched and reports false.
func (s *State) Enter(k Kind, a Axis, text string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	s.SetAxis(k, a, v)
	return true
}

func (s *State) Sensitivity() Sensitivity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sensitivity
}

func (s *State) SetSensitivity(v Sensitivity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sensitivity = v
}
