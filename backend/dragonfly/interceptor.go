package dragonfly

import (
	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/culling/backend"
	"github.com/oomph-ac/culling/block"
	"github.com/oomph-ac/culling/culling"
)

// Mod is the ID probed for to enable the dragonfly backend.
const Mod = "dragonfly"

// Interceptor asks the decider about faces of blocks in a dragonfly world. Without an opinion, it falls back
// to the block models of dragonfly: a face is hidden if the side of the neighbour touching it is solid.
type Interceptor struct {
	d    backend.Decider
	src  world.BlockSource
	grid *Grid
}

// NewInterceptor returns an interceptor over src.
func NewInterceptor(d backend.Decider, src world.BlockSource, idx *Index) *Interceptor {
	return &Interceptor{d: d, src: src, grid: NewGrid(src, idx)}
}

// Backend returns a backend creating interceptors over src. The grid passed to New is not used: blocks are
// always read from src.
func Backend(src world.BlockSource, idx *Index) backend.Backend {
	return backend.Backend{Name: "dragonfly", Mod: Mod, New: func(d backend.Decider, _ culling.Grid) backend.Interceptor {
		return NewInterceptor(d, src, idx)
	}}
}

// Name ...
func (*Interceptor) Name() string {
	return "dragonfly"
}

// ShouldDrawFace ...
func (i *Interceptor) ShouldDrawFace(self block.State, pos cube.Pos, face cube.Face) bool {
	neighbourPos := pos.Side(face)
	if draw, opinion := i.d.ShouldDrawFace(self, i.grid, pos, face, neighbourPos); opinion {
		return draw
	}
	dfPos := df_cube.Pos(neighbourPos)
	return !i.src.Block(dfPos).Model().FaceSolid(dfPos, df_cube.Face(face.Opposite()), i.src)
}
