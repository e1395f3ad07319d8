package dragonfly

import (
	df_block "github.com/df-mc/dragonfly/server/block"
	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/culling/shape"
)

// airSource is a block source with nothing but air, used to resolve models in isolation.
type airSource struct{}

func (airSource) Block(df_cube.Pos) world.Block {
	return df_block.Air{}
}

// ShapeOf returns the shape of the model of b, as if the block stood on its own.
func ShapeOf(b world.Block) shape.Shape {
	boxes := b.Model().BBox(df_cube.Pos{}, airSource{})
	if len(boxes) == 0 {
		return shape.Empty()
	}
	s := make(shape.Shape, 0, len(boxes))
	for _, bb := range boxes {
		min, max := bb.Min(), bb.Max()
		s = append(s, cube.Box(
			float32(min[0]), float32(min[1]), float32(min[2]),
			float32(max[0]), float32(max[1]), float32(max[2]),
		))
	}
	return s
}
