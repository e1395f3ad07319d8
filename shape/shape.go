package shape

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// Shape is the occlusion shape of a block state: a list of boxes in block-local coordinates, where a full
// block spans [0, 1] on every axis. A Shape must not be modified once it was handed to a block type.
type Shape []cube.BBox

var full = Shape{cube.Box(0, 0, 0, 1, 1, 1)}

// Full returns the shape of a full cube.
func Full() Shape {
	return full
}

// Empty returns a shape without any boxes. Blocks with an empty shape never occlude a neighbour.
func Empty() Shape {
	return nil
}

// Slab returns the shape of a half block occupying the top or bottom half of the cell.
func Slab(top bool) Shape {
	if top {
		return Shape{cube.Box(0, 0.5, 0, 1, 1, 1)}
	}
	return Shape{cube.Box(0, 0, 0, 1, 0.5, 1)}
}

// Centred returns a shape made of a single box centred on origin with the size passed. This is the encoding
// used by the block catalog: [originX, originY, originZ, sizeX, sizeY, sizeZ].
func Centred(origin, size mgl32.Vec3) cube.BBox {
	half := size.Mul(0.5)
	min, max := origin.Sub(half), origin.Add(half)
	return cube.Box(min[0], min[1], min[2], max[0], max[1], max[2])
}

// Empty returns true if the shape has no boxes.
func (s Shape) Empty() bool {
	return len(s) == 0
}

// Solid returns true if the shape fully covers the face passed.
func (s Shape) Solid(face cube.Face) bool {
	return Covers(Face(s, face), fullProjection)
}

// FullCube returns true if the shape fully covers all six faces of the cell.
func (s Shape) FullCube() bool {
	for _, f := range cube.Faces() {
		if !s.Solid(f) {
			return false
		}
	}
	return true
}
