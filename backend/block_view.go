package backend

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/culling/block"
	"github.com/oomph-ac/culling/culling"
)

// BlockView is the interceptor of the vanilla renderer, which asks for every face whether the side of the
// block should be drawn.
type BlockView struct {
	d    Decider
	grid culling.Grid
}

// NewBlockView returns a BlockView reading blocks from grid.
func NewBlockView(d Decider, grid culling.Grid) *BlockView {
	return &BlockView{d: d, grid: grid}
}

// Name ...
func (*BlockView) Name() string {
	return "vanilla"
}

// ShouldDrawFace ...
func (v *BlockView) ShouldDrawFace(self block.State, pos cube.Pos, face cube.Face) bool {
	return v.DrawSide(self, pos, face, pos.Side(face))
}

// DrawSide returns true if the side of self facing otherPos must be drawn. otherPos must be pos.Side(face).
func (v *BlockView) DrawSide(self block.State, pos cube.Pos, face cube.Face, otherPos cube.Pos) bool {
	if draw, opinion := v.d.ShouldDrawFace(self, v.grid, pos, face, otherPos); opinion {
		return draw
	}
	return v.native(face, otherPos)
}

// native hides a face only behind an opaque neighbour whose touching side is completely solid.
func (v *BlockView) native(face cube.Face, otherPos cube.Pos) bool {
	other, ok := v.grid.Block(otherPos)
	if !ok || !other.Valid() {
		return true
	}
	return !other.Opaque() || !other.Shape().Solid(face.Opposite())
}
