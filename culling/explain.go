package culling

import (
	"fmt"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/culling/block"
	"github.com/oomph-ac/culling/capability"
	"github.com/oomph-ac/culling/shape"
)

// Explain walks through the same steps as ShouldDrawFace and records each of them, in order. It is meant for
// debugging commands and tests, not for meshing: unlike ShouldDrawFace it also checks that neighbourPos is
// the position next to pos. The returned map always ends with a "draw" entry, and an "opinion" entry tells
// whether the engine had an opinion at all.
func (e *Engine) Explain(self block.State, grid Grid, pos cube.Pos, face cube.Face, neighbourPos cube.Pos) *orderedmap.OrderedMap[string, any] {
	trace := orderedmap.NewOrderedMap[string, any]()
	trace.Set("block", self.String())
	trace.Set("pos", pos)
	trace.Set("face", faceName(face))

	if want := pos.Side(face); want != neighbourPos {
		trace.Set("warning", fmt.Sprintf("neighbour position %v is not next to %v (expected %v)", neighbourPos, pos, want))
	}

	enabled := e.flag.Enabled()
	trace.Set("enabled", enabled)
	if !enabled {
		trace.Set("opinion", false)
		trace.Set("draw", false)
		return trace
	}
	trace.Set("opinion", true)

	neighbour, ok := grid.Block(neighbourPos)
	if !ok || !neighbour.Valid() {
		trace.Set("neighbour", "out of bounds")
		trace.Set("draw", true)
		return trace
	}
	trace.Set("neighbour", neighbour.String())

	if f, ok := e.reg.Lookup(self.Type()); ok {
		d := f(self, neighbour, face)
		trace.Set("capability", d.String())
		switch d {
		case capability.Hidden:
			trace.Set("draw", false)
			return trace
		case capability.Visible:
			trace.Set("draw", true)
			return trace
		}
	} else {
		trace.Set("capability", "none")
	}

	trace.Set("neighbour_opaque", neighbour.Opaque())
	selfFace := shape.Face(self.Shape(), face)
	trace.Set("self_face_empty", selfFace.Empty())
	trace.Set("covered", shape.Covers(shape.Face(neighbour.Shape(), face.Opposite()), selfFace))
	trace.Set("draw", Default(self, neighbour, face))
	return trace
}

// FormatTrace formats a trace returned by Explain as [key=value ...].
func FormatTrace(trace *orderedmap.OrderedMap[string, any]) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, key := range trace.Keys() {
		if i > 0 {
			b.WriteByte(' ')
		}
		v, _ := trace.Get(key)
		fmt.Fprintf(&b, "%s=%v", key, v)
	}
	b.WriteByte(']')
	return b.String()
}
