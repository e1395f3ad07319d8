package capability

import (
	"fmt"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/culling/block"
)

// Decision is the answer of a culling capability for a single face.
type Decision uint8

const (
	// Defer leaves the decision to the default shape comparison.
	Defer Decision = iota
	// Hidden culls the face.
	Hidden
	// Visible forces the face to be drawn.
	Visible
)

func (d Decision) String() string {
	switch d {
	case Defer:
		return "defer"
	case Hidden:
		return "hidden"
	case Visible:
		return "visible"
	}
	return fmt.Sprintf("Decision(%d)", uint8(d))
}

// Func decides whether the face of self pointing towards neighbour is hidden. It must be a pure function of
// its arguments, as it is called concurrently from every meshing goroutine.
type Func func(self, neighbour block.State, face cube.Face) Decision
