package culling

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/culling/block"
	"github.com/oomph-ac/culling/shape"
)

// Default is the occlusion test used for blocks without a capability. The face is hidden only if the
// neighbour is opaque and its shape on the opposite face covers everything self has on this face. Whenever
// that cannot be shown, the face is drawn.
func Default(self, neighbour block.State, face cube.Face) bool {
	if !neighbour.Opaque() {
		return true
	}
	selfFace := shape.Face(self.Shape(), face)
	if selfFace.Empty() {
		// Nothing of self reaches the face, so whatever self draws there is not flush with the neighbour.
		return true
	}
	return !shape.Covers(shape.Face(neighbour.Shape(), face.Opposite()), selfFace)
}
