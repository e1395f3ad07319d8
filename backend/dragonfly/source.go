package dragonfly

import (
	"strconv"

	df_block "github.com/df-mc/dragonfly/server/block"
	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/culling/block"
	"github.com/oomph-ac/culling/culling"
)

// Source exposes a grid as a dragonfly block source, so dragonfly block models can be evaluated against it.
// States are looked up by name and properties in the dragonfly block registry; states dragonfly does not know
// are returned as air.
type Source struct {
	grid culling.Grid
}

// NewSource returns a Source reading from grid.
func NewSource(grid culling.Grid) Source {
	return Source{grid: grid}
}

// Block ...
func (s Source) Block(pos df_cube.Pos) world.Block {
	st, ok := s.grid.Block(cube.Pos(pos))
	if !ok || !st.Valid() {
		return df_block.Air{}
	}
	if b, ok := Block(st); ok {
		return b
	}
	return df_block.Air{}
}

// Block returns the dragonfly block with the name and properties of st. Property values are passed to
// dragonfly as booleans or integers where they parse as such.
func Block(st block.State) (world.Block, bool) {
	props := st.Properties()
	if len(props) == 0 {
		return world.BlockByName(st.Type().Name(), nil)
	}
	m := make(map[string]any, len(props))
	for _, p := range props {
		if p.Value == "true" || p.Value == "false" {
			m[p.Name] = p.Value == "true"
		} else if n, err := strconv.ParseInt(p.Value, 10, 32); err == nil {
			m[p.Name] = int32(n)
		} else {
			m[p.Name] = p.Value
		}
	}
	return world.BlockByName(st.Type().Name(), m)
}
