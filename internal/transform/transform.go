// Package transform holds the live pose of the object being edited.
//
// Poses are kept in degrees; radians appear only when a pose is applied to
// the render Target.
package transform

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"modelshare/internal/scene"
)

// Kind selects the position or rotation half of a Transform.
type Kind int

const (
	Position Kind = iota
	Rotation
)

func (k Kind) String() string {
	switch k {
	case Position:
		return "position"
	case Rotation:
		return "rotation"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts "position"/"pos" and "rotation"/"rot".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "position", "pos":
		return Position, nil
	case "rotation", "rot":
		return Rotation, nil
	}
	return 0, fmt.Errorf("unknown transform kind %q", s)
}

// Axis indexes a Vec3 component.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return X, nil
	case "y":
		return Y, nil
	case "z":
		return Z, nil
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}

// Vec3 is the persisted vector shape {x, y, z}.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Get(a Axis) float64 {
	switch a {
	case X:
		return v.X
	case Y:
		return v.Y
	default:
		return v.Z
	}
}

// With returns v with axis a replaced.
func (v Vec3) With(a Axis, value float64) Vec3 {
	switch a {
	case X:
		v.X = value
	case Y:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}

func (v Vec3) Mgl() mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }

func FromMgl(v mgl64.Vec3) Vec3 { return Vec3{X: v[0], Y: v[1], Z: v[2]} }

// Transform is a pose with rotation in degrees.
type Transform struct {
	Position Vec3 `json:"position"`
	Rotation Vec3 `json:"rotation"`
}

func Identity() Transform { return Transform{} }

// Yaw returns the identity pose turned deg degrees about Y.
func Yaw(deg float64) Transform {
	return Transform{Rotation: Vec3{Y: deg}}
}

// FromNode reads the current pose of a render node.
func FromNode(n *scene.Node) Transform {
	return Transform{
		Position: FromMgl(n.Position),
		Rotation: Vec3{
			X: mgl64.RadToDeg(n.Rotation[0]),
			Y: mgl64.RadToDeg(n.Rotation[1]),
			Z: mgl64.RadToDeg(n.Rotation[2]),
		},
	}
}

// Radians converts the rotation for the renderer.
func (t Transform) Radians() mgl64.Vec3 {
	return mgl64.Vec3{
		mgl64.DegToRad(t.Rotation.X),
		mgl64.DegToRad(t.Rotation.Y),
		mgl64.DegToRad(t.Rotation.Z),
	}
}

func (t Transform) get(k Kind, a Axis) float64 {
	if k == Rotation {
		return t.Rotation.Get(a)
	}
	return t.Position.Get(a)
}

func (t Transform) with(k Kind, a Axis, value float64) Transform {
	if k == Rotation {
		t.Rotation = t.Rotation.With(a, value)
	} else {
		t.Position = t.Position.With(a, value)
	}
	return t
}

func (t Transform) String() string {
	return fmt.Sprintf("pos(%g,%g,%g) rot(%g,%g,%g)",
		t.Position.X, t.Position.Y, t.Position.Z, t.Rotation.X, t.Rotation.Y, t.Rotation.Z)
}
