package shape

import (
	"slices"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
)

// epsilon is the tolerance used when comparing box edges against the cell boundaries.
const epsilon = 1e-5

// Rect is an axis-aligned rectangle on a face plane, using the two axes perpendicular to the face normal.
type Rect struct {
	MinU, MinV float32
	MaxU, MaxV float32
}

// Projection is the part of a shape that touches one face of the cell, flattened onto that face.
type Projection []Rect

var fullProjection = Projection{{0, 0, 1, 1}}

// Empty returns true if nothing of the shape touches the face.
func (p Projection) Empty() bool {
	return len(p) == 0
}

// axes returns the index of the normal axis of a face, the two in-plane axes and whether the face points
// towards the positive end of its axis. The in-plane axes are the same for a face and its opposite face, so
// projections of two neighbouring blocks can be compared directly.
func axes(face cube.Face) (n, u, v int, positive bool) {
	switch face {
	case cube.FaceDown:
		return 1, 0, 2, false
	case cube.FaceUp:
		return 1, 0, 2, true
	case cube.FaceNorth:
		return 2, 0, 1, false
	case cube.FaceSouth:
		return 2, 0, 1, true
	case cube.FaceWest:
		return 0, 2, 1, false
	default:
		return 0, 2, 1, true
	}
}

// Face returns the projection of the boxes in s that touch the face passed. Boxes that do not reach the
// boundary of the cell on that side do not contribute, since they cannot hide anything behind the face.
func Face(s Shape, face cube.Face) Projection {
	if len(s) == 0 {
		return nil
	}
	n, u, v, positive := axes(face)

	var p Projection
	for _, bb := range s {
		min, max := bb.Min(), bb.Max()
		if positive && max[n] < 1-epsilon {
			continue
		} else if !positive && min[n] > epsilon {
			continue
		}
		r := Rect{
			MinU: clamp(min[u]), MinV: clamp(min[v]),
			MaxU: clamp(max[u]), MaxV: clamp(max[v]),
		}
		if r.MaxU-r.MinU <= epsilon || r.MaxV-r.MinV <= epsilon {
			continue
		}
		p = append(p, r)
	}
	return p
}

// Covers returns true if the union of the rectangles in outer covers the union of the rectangles in inner.
// An empty inner projection is always covered. The check compresses both projections into a grid built from
// every rectangle edge and tests the centre of each grid cell, so it is exact for axis-aligned rectangles.
func Covers(outer, inner Projection) bool {
	if len(inner) == 0 {
		return true
	}
	if len(outer) == 0 {
		return false
	}

	us := make([]float32, 0, (len(outer)+len(inner))*2)
	vs := make([]float32, 0, (len(outer)+len(inner))*2)
	for _, r := range outer {
		us, vs = append(us, r.MinU, r.MaxU), append(vs, r.MinV, r.MaxV)
	}
	for _, r := range inner {
		us, vs = append(us, r.MinU, r.MaxU), append(vs, r.MinV, r.MaxV)
	}
	us, vs = edges(us), edges(vs)

	for i := 0; i+1 < len(us); i++ {
		cu := (us[i] + us[i+1]) / 2
		for j := 0; j+1 < len(vs); j++ {
			cv := (vs[j] + vs[j+1]) / 2
			if inside(inner, cu, cv) && !inside(outer, cu, cv) {
				return false
			}
		}
	}
	return true
}

// edges sorts the coordinates passed and removes values that are within epsilon of their predecessor.
func edges(c []float32) []float32 {
	slices.Sort(c)
	out := c[:1]
	for _, x := range c[1:] {
		if math32.Abs(x-out[len(out)-1]) > epsilon {
			out = append(out, x)
		}
	}
	return out
}

func inside(p Projection, u, v float32) bool {
	for _, r := range p {
		if u > r.MinU && u < r.MaxU && v > r.MinV && v < r.MaxV {
			return true
		}
	}
	return false
}

func clamp(x float32) float32 {
	return math32.Max(0, math32.Min(1, x))
}
