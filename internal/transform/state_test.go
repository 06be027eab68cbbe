package transform

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"modelshare/internal/scene"
)

type recordingTarget struct {
	applied []struct{ pos, rot mgl64.Vec3 }
}

func (r *recordingTarget) ApplyTransform(pos, rot mgl64.Vec3) {
	r.applied = append(r.applied, struct{ pos, rot mgl64.Vec3 }{pos, rot})
}

func (r *recordingTarget) last() (mgl64.Vec3, mgl64.Vec3) {
	l := r.applied[len(r.applied)-1]
	return l.pos, l.rot
}

func TestRotationAppliedInRadians(t *testing.T) {
	target := &recordingTarget{}
	s := NewState(target, Identity())
	require.Len(t, target.applied, 1)

	s.SetAxis(Rotation, Y, 90)
	_, rot := target.last()
	assert.InDelta(t, math.Pi/2, rot[1], 1e-12)
	assert.Equal(t, 90.0, s.Transform().Rotation.Y, "state keeps degrees")
}

func TestEveryEditReappliesFullTransform(t *testing.T) {
	target := &recordingTarget{}
	s := NewState(target, Transform{Position: Vec3{X: 1}})
	s.SetAxis(Position, Y, 2)
	s.SetAxis(Position, Y, 2)
	require.Len(t, target.applied, 3, "no dirty check")
	pos, _ := target.last()
	assert.Equal(t, mgl64.Vec3{1, 2, 0}, pos)
}

func TestDirectEntryIsNotClamped(t *testing.T) {
	s := NewState(nil, Identity())
	s.SetAxis(Position, X, 25)
	s.SetAxis(Rotation, Z, -720)
	assert.Equal(t, 25.0, s.Transform().Position.X)
	assert.Equal(t, -720.0, s.Transform().Rotation.Z)

	require.True(t, s.Enter(Position, Y, " 42.5 "))
	assert.Equal(t, 42.5, s.Transform().Position.Y)
}

func TestSliderIsClamped(t *testing.T) {
	s := NewState(nil, Identity())
	assert.Equal(t, 10.0, s.Slide(Position, X, 25))
	assert.Equal(t, -180.0, s.Slide(Rotation, Y, -500))
	assert.Equal(t, 3.0, s.Slide(Position, Z, 3))
	assert.Equal(t, Transform{Position: Vec3{X: 10, Z: 3}, Rotation: Vec3{Y: -180}}, s.Transform())
}

func TestEnterIgnoresMalformedInput(t *testing.T) {
	target := &recordingTarget{}
	s := NewState(target, Transform{Position: Vec3{X: 1}})
	for _, text := range []string{"", "abc", "1.2.3", "NaN", "Inf", "--1"} {
		assert.False(t, s.Enter(Position, X, text), text)
	}
	assert.Equal(t, 1.0, s.Transform().Position.X)
	assert.Len(t, target.applied, 1, "malformed input is not applied")
}

func TestSensitivitySteps(t *testing.T) {
	assert.Equal(t, 0.01, Low.Step(Position))
	assert.Equal(t, 1.0, Low.Step(Rotation))
	assert.Equal(t, 0.1, High.Step(Position))
	assert.Equal(t, 5.0, High.Step(Rotation))

	s := NewState(nil, Identity())
	s.Nudge(Rotation, X, 3)
	assert.Equal(t, 3.0, s.Transform().Rotation.X)
	s.SetSensitivity(High)
	s.Nudge(Rotation, X, 2)
	assert.Equal(t, 13.0, s.Transform().Rotation.X)
	assert.Equal(t, 180.0, s.Nudge(Rotation, X, 100))
}

func TestSensitivityNeverClampsEntry(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Float64Range(-1e6, 1e6).Draw(t, "v")
		high := rapid.Bool().Draw(t, "high")
		s := NewState(nil, Identity())
		if high {
			s.SetSensitivity(High)
		}
		s.SetAxis(Position, Z, v)
		if got := s.Transform().Position.Z; got != v {
			t.Fatalf("entered %v, stored %v", v, got)
		}
	})
}

func TestFromNode(t *testing.T) {
	n := scene.NewNode("m", scene.Bounds{})
	n.ApplyTransform(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, math.Pi, 0})
	tr := FromNode(n)
	assert.Equal(t, Vec3{X: 1, Y: 2, Z: 3}, tr.Position)
	assert.InDelta(t, 180, tr.Rotation.Y, 1e-9)

	s := NewState(n, Yaw(90))
	assert.InDelta(t, math.Pi/2, n.Rotation[1], 1e-12)
	s.Set(Identity())
	assert.Equal(t, mgl64.Vec3{}, n.Rotation)
}

func TestTransformJSONShape(t *testing.T) {
	raw, err := json.Marshal(Transform{Position: Vec3{X: 1}, Rotation: Vec3{Y: 45}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"position":{"x":1,"y":0,"z":0},"rotation":{"x":0,"y":45,"z":0}}`, string(raw))
}

func TestParseKindAndAxis(t *testing.T) {
	k, err := ParseKind("ROT")
	require.NoError(t, err)
	assert.Equal(t, Rotation, k)
	_, err = ParseKind("scale")
	assert.Error(t, err)
	a, err := ParseAxis("z")
	require.NoError(t, err)
	assert.Equal(t, Z, a)
	_, err = ParseAxis("w")
	assert.Error(t, err)
}
