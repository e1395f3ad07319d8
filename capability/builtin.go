package capability

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/culling/block"
)

// Always returns a capability that answers d for every face.
func Always(d Decision) Func {
	return func(block.State, block.State, cube.Face) Decision {
		return d
	}
}

// SameType returns a capability answering d when the neighbour has the same block type, and Defer otherwise.
// Registering SameType(Hidden) for glass removes the faces between two glass blocks, which the default
// comparison keeps because glass is not opaque.
func SameType(d Decision) Func {
	return func(self, neighbour block.State, _ cube.Face) Decision {
		if self.Type() == neighbour.Type() {
			return d
		}
		return Defer
	}
}

// SameState is like SameType but only matches neighbours with equal property values, for blocks such as
// fluids where a different level must keep the face between them.
func SameState(d Decision) Func {
	return func(self, neighbour block.State, _ cube.Face) Decision {
		if self.Equal(neighbour) {
			return d
		}
		return Defer
	}
}

// Faces returns a capability that answers per face. Faces missing from the map defer.
func Faces(decisions map[cube.Face]Decision) Func {
	var table [6]Decision
	for f, d := range decisions {
		if f >= 0 && int(f) < len(table) {
			table[f] = d
		}
	}
	return func(_, _ block.State, face cube.Face) Decision {
		if face < 0 || int(face) >= len(table) {
			return Defer
		}
		return table[face]
	}
}

// Chain combines capabilities: the first one that does not defer decides.
func Chain(fns ...Func) Func {
	return func(self, neighbour block.State, face cube.Face) Decision {
		for _, f := range fns {
			if d := f(self, neighbour, face); d != Defer {
				return d
			}
		}
		return Defer
	}
}
