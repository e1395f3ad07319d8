package dragonfly

import (
	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/culling/block"
)

// Grid reads block states from a dragonfly block source. Blocks missing from the index are reported as out
// of bounds, which makes the faces next to them visible.
type Grid struct {
	src world.BlockSource
	idx *Index
}

// NewGrid returns a grid over src.
func NewGrid(src world.BlockSource, idx *Index) *Grid {
	return &Grid{src: src, idx: idx}
}

// Block ...
func (g *Grid) Block(pos cube.Pos) (block.State, bool) {
	return g.idx.State(g.src.Block(df_cube.Pos(pos)))
}
