package scene

import (
	"io"

	"github.com/go-gl/mathgl/mgl64"
)

// Loaded is a model as it enters the editor: re-centered once and framed.
type Loaded struct {
	Node   *Node
	Offset mgl64.Vec3
	Camera Camera
}

// Load reads a .glb or .gltf model, moves it so its bounds are centered on
// the origin and fits the camera to the result.
func Load(r io.Reader, name string, fovDeg float64, opts ...Option) (*Loaded, error) {
	b, err := BoundsFromGLTF(r)
	if err != nil {
		return nil, err
	}
	n := NewNode(name, b)
	offset := n.Recenter()
	cam, err := Frame(n.WorldBounds(), fovDeg, opts...)
	if err != nil {
		return nil, err
	}
	return &Loaded{Node: n, Offset: offset, Camera: cam}, nil
}
