package backend

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/culling/block"
	"github.com/oomph-ac/culling/culling"
)

// RenderContext is the interceptor of the alternative chunk builder. The builder moves the context from block
// to block and asks per face whether it is occluded, so the context works out the adjacent position itself.
// A RenderContext must only be used by one goroutine.
type RenderContext struct {
	d        Decider
	region   culling.Grid
	blockPos cube.Pos
}

// NewRenderContext returns a render context over region.
func NewRenderContext(d Decider, region culling.Grid) *RenderContext {
	return &RenderContext{d: d, region: region}
}

// Name ...
func (*RenderContext) Name() string {
	return "render_context"
}

// Prepare moves the context to the block at pos.
func (c *RenderContext) Prepare(pos cube.Pos) {
	c.blockPos = pos
}

// ShouldDrawFace ...
func (c *RenderContext) ShouldDrawFace(self block.State, pos cube.Pos, face cube.Face) bool {
	c.Prepare(pos)
	return c.FaceNotOccluded(self, face)
}

// FaceNotOccluded returns true if the face of state at the current position is not occluded.
func (c *RenderContext) FaceNotOccluded(state block.State, face cube.Face) bool {
	adjPos := c.blockPos.Side(face)
	if draw, opinion := c.d.ShouldDrawFace(state, c.region, c.blockPos, face, adjPos); opinion {
		return draw
	}
	adj, ok := c.region.Block(adjPos)
	if !ok || !adj.Valid() {
		return true
	}
	// The builder only culls against opaque full cubes.
	return !adj.Opaque() || !adj.Shape().FullCube()
}
