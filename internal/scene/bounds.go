// Package scene frames a loaded object for the camera and re-centers it at
// the origin.
package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// EmptyBounds returns the identity element for Union.
func EmptyBounds() Bounds {
	inf := math.Inf(1)
	return Bounds{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether no point has been added.
func (b Bounds) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

func (b Bounds) Size() mgl64.Vec3 {
	if b.IsEmpty() {
		return mgl64.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

func (b Bounds) Center() mgl64.Vec3 {
	if b.IsEmpty() {
		return mgl64.Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

// MaxDim is the largest edge of the box.
func (b Bounds) MaxDim() float64 {
	s := b.Size()
	return math.Max(s[0], math.Max(s[1], s[2]))
}

// IsDegenerate reports boxes that cannot be framed by their extent: empty,
// zero-sized, or holding non-finite coordinates.
func (b Bounds) IsDegenerate() bool {
	if b.IsEmpty() || !finiteVec(b.Min) || !finiteVec(b.Max) {
		return true
	}
	return b.MaxDim() <= 0
}

// Extend grows the box to contain p.
func (b Bounds) Extend(p mgl64.Vec3) Bounds {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
	return b
}

func (b Bounds) Union(o Bounds) Bounds {
	if o.IsEmpty() {
		return b
	}
	return b.Extend(o.Min).Extend(o.Max)
}

func (b Bounds) Translate(v mgl64.Vec3) Bounds {
	if b.IsEmpty() {
		return b
	}
	return Bounds{Min: b.Min.Add(v), Max: b.Max.Add(v)}
}

// Rotate returns the axis-aligned box enclosing b rotated by the XYZ Euler
// angles in radians.
func (b Bounds) Rotate(euler mgl64.Vec3) Bounds {
	if b.IsEmpty() || euler == (mgl64.Vec3{}) {
		return b
	}
	q := mgl64.AnglesToQuat(euler[0], euler[1], euler[2], mgl64.XYZ)
	out := EmptyBounds()
	for i := 0; i < 8; i++ {
		corner := b.Min
		if i&1 != 0 {
			corner[0] = b.Max[0]
		}
		if i&2 != 0 {
			corner[1] = b.Max[1]
		}
		if i&4 != 0 {
			corner[2] = b.Max[2]
		}
		out = out.Extend(q.Rotate(corner))
	}
	return out
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func finiteVec(v mgl64.Vec3) bool { return finite(v[0]) && finite(v[1]) && finite(v[2]) }
