package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MinCameraDistance is used when the bounds have no usable extent.
const MinCameraDistance = 3.0

// DefaultFOV matches the editor canvas camera, in degrees.
const DefaultFOV = 40.0

// DefaultMargin adds one maxDim of headroom past the fitted distance.
const DefaultMargin = 1.0

// DefaultViewAxis looks down -Z from the +Z side.
var DefaultViewAxis = mgl64.Vec3{0, 0, 1}

var ErrInvalidFOV = errors.New("scene: field of view must be in (0,180) degrees")

// Camera is the framing result. Distance is the fitted distance before margin.
type Camera struct {
	Position mgl64.Vec3 `json:"position"`
	Target   mgl64.Vec3 `json:"target"`
	Distance float64    `json:"distance"`
	FOV      float64    `json:"fov"`
}

type frameOptions struct {
	axis   mgl64.Vec3
	margin float64
}

// Option adjusts framing.
type Option func(*frameOptions)

// WithViewAxis places the camera along axis from the center. Zero or
// non-finite axes are ignored.
func WithViewAxis(axis mgl64.Vec3) Option {
	return func(o *frameOptions) {
		if finiteVec(axis) && axis.Len() > 0 {
			o.axis = axis.Normalize()
		}
	}
}

// WithMargin sets the headroom added to the distance, as a multiple of maxDim.
func WithMargin(factor float64) Option {
	return func(o *frameOptions) {
		if finite(factor) && factor >= 0 {
			o.margin = factor
		}
	}
}

// FitDistance is the distance at which an extent of maxDim exactly fills a
// vertical field of view of fovDeg. Degenerate extents return MinCameraDistance.
func FitDistance(maxDim, fovDeg float64) (float64, error) {
	if !finite(fovDeg) || fovDeg <= 0 || fovDeg >= 180 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFOV, fovDeg)
	}
	if !finite(maxDim) || maxDim <= 0 {
		return MinCameraDistance, nil
	}
	d := maxDim / (2 * math.Tan(mgl64.DegToRad(fovDeg)/2))
	if !finite(d) {
		return MinCameraDistance, nil
	}
	return d, nil
}

// Frame aims a camera at the center of b from far enough away to fit it.
func Frame(b Bounds, fovDeg float64, opts ...Option) (Camera, error) {
	o := frameOptions{axis: DefaultViewAxis, margin: DefaultMargin}
	for _, opt := range opts {
		opt(&o)
	}

	var center mgl64.Vec3
	maxDim := 0.0
	if !b.IsEmpty() && finiteVec(b.Min) && finiteVec(b.Max) {
		center = b.Center()
		maxDim = b.MaxDim()
	}
	dist, err := FitDistance(maxDim, fovDeg)
	if err != nil {
		return Camera{}, err
	}
	offset := dist + o.margin*maxDim
	if !finite(offset) {
		offset = dist
	}
	return Camera{
		Position: center.Add(o.axis.Mul(offset)),
		Target:   center,
		Distance: dist,
		FOV:      fovDeg,
	}, nil
}
