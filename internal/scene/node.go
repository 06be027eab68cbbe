package scene

import "github.com/go-gl/mathgl/mgl64"

// Node is the render object being edited. Rotation is held in radians as the
// renderer expects; Geometry is the mesh extent in local space.
type Node struct {
	Name     string
	Position mgl64.Vec3
	Rotation mgl64.Vec3
	Geometry Bounds
}

// NewNode wraps geometry bounds in a node at the origin.
func NewNode(name string, geometry Bounds) *Node {
	return &Node{Name: name, Geometry: geometry}
}

// ApplyTransform replaces the node pose. rotation is in radians.
func (n *Node) ApplyTransform(position, rotation mgl64.Vec3) {
	n.Position = position
	n.Rotation = rotation
}

// WorldBounds is the axis-aligned box of the posed geometry.
func (n *Node) WorldBounds() Bounds {
	return n.Geometry.Rotate(n.Rotation).Translate(n.Position)
}

// Recenter moves the node so its world bounds are centered at the origin and
// returns the offset that was subtracted. Running it again is a no-op.
func (n *Node) Recenter() mgl64.Vec3 {
	wb := n.WorldBounds()
	if wb.IsEmpty() || !finiteVec(wb.Min) || !finiteVec(wb.Max) {
		return mgl64.Vec3{}
	}
	c := wb.Center()
	n.Position = n.Position.Sub(c)
	return c
}
