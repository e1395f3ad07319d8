// Package backendtest provides helpers for testing render-path interceptors.
package backendtest

import (
	"fmt"
	"sync"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/culling/block"
	"github.com/oomph-ac/culling/culling"
)

// Decider is the decision function wrapped by Counting. *culling.Engine implements it.
type Decider interface {
	ShouldDrawFace(self block.State, grid culling.Grid, pos cube.Pos, face cube.Face, neighbourPos cube.Pos) (draw, opinion bool)
}

type faceKey struct {
	pos  cube.Pos
	face cube.Face
}

// Counting wraps a Decider and records every call made to it, so tests can check that an interceptor asks
// exactly once per face and passes the right neighbour.
type Counting struct {
	d Decider

	mu         sync.Mutex
	calls      map[faceKey]int
	mismatches []string
}

// NewCounting returns a Counting wrapping d.
func NewCounting(d Decider) *Counting {
	return &Counting{d: d, calls: make(map[faceKey]int)}
}

// ShouldDrawFace records the call and passes it on to the wrapped Decider.
func (c *Counting) ShouldDrawFace(self block.State, grid culling.Grid, pos cube.Pos, face cube.Face, neighbourPos cube.Pos) (bool, bool) {
	c.mu.Lock()
	c.calls[faceKey{pos: pos, face: face}]++
	if want := pos.Side(face); want != neighbourPos {
		c.mismatches = append(c.mismatches, fmt.Sprintf("%v face %v: neighbour %v, expected %v", pos, face, neighbourPos, want))
	}
	c.mu.Unlock()

	return c.d.ShouldDrawFace(self, grid, pos, face, neighbourPos)
}

// Calls returns how often the face of the block at pos was asked for.
func (c *Counting) Calls(pos cube.Pos, face cube.Face) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[faceKey{pos: pos, face: face}]
}

// Total returns the amount of calls made.
func (c *Counting) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int
	for _, v := range c.calls {
		n += v
	}
	return n
}

// Repeated returns the amount of faces asked for more than once.
func (c *Counting) Repeated() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int
	for _, v := range c.calls {
		if v > 1 {
			n++
		}
	}
	return n
}

// Mismatches returns a description of every call whose neighbour position was not next to the face.
func (c *Counting) Mismatches() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.mismatches...)
}
