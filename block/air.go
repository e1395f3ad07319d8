package block

import "github.com/oomph-ac/culling/shape"

// Air is the empty block. It never hides anything and is never drawn.
var Air = Define("minecraft:air", WithLayer(LayerInvisible), WithShape(shape.Empty()))
