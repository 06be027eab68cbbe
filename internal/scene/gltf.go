package scene

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
)

const positionAttribute = "POSITION"

// BoundsFromGLTF decodes a .glb or .gltf stream and returns the union of the
// POSITION accessor bounds of every mesh primitive. Node transforms are not
// applied. Accessors without min/max are skipped, so a model with none yields
// empty (degenerate) bounds.
func BoundsFromGLTF(r io.Reader) (Bounds, error) {
	var doc gltf.Document
	if err := gltf.NewDecoder(r).Decode(&doc); err != nil {
		return Bounds{}, fmt.Errorf("decode gltf: %w", err)
	}
	return BoundsFromDocument(&doc), nil
}

// BoundsFromDocument computes mesh bounds from an already decoded document.
func BoundsFromDocument(doc *gltf.Document) Bounds {
	out := EmptyBounds()
	for _, mesh := range doc.Meshes {
		if mesh == nil {
			continue
		}
		for _, prim := range mesh.Primitives {
			if prim == nil {
				continue
			}
			raw, ok := prim.Attributes[positionAttribute]
			idx := int(raw)
			if !ok || idx < 0 || idx >= len(doc.Accessors) {
				continue
			}
			acc := doc.Accessors[idx]
			if acc == nil || len(acc.Min) < 3 || len(acc.Max) < 3 {
				continue
			}
			out = out.
				Extend(mgl64.Vec3{float64(acc.Min[0]), float64(acc.Min[1]), float64(acc.Min[2])}).
				Extend(mgl64.Vec3{float64(acc.Max[0]), float64(acc.Max[1]), float64(acc.Max[2])})
		}
	}
	return out
}
