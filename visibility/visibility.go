package visibility

import (
	"math/bits"
	"sync"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/culling/backend"
	"github.com/oomph-ac/culling/block"
	"github.com/oomph-ac/culling/chunk"
	"github.com/oomph-ac/culling/world"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// Mask holds, for every block of a section, a bit per face that is set if the face must be drawn. Bit n
// belongs to the face with value n.
type Mask [chunk.Size * chunk.Size * chunk.Size]uint8

func index(x, y, z int) int {
	return x<<8 | z<<4 | y
}

// Visible returns true if the face of the block at the local coordinates passed must be drawn.
func (m *Mask) Visible(x, y, z int, face cube.Face) bool {
	return m[index(x&15, y&15, z&15)]&(1<<uint(face)) != 0
}

// Faces returns the amount of faces that must be drawn.
func (m *Mask) Faces() int {
	var n int
	for _, b := range m {
		n += bits.OnesCount8(b)
	}
	return n
}

// maskPool is a pool of reusable masks.
var maskPool = sync.Pool{
	New: func() interface{} {
		return &Mask{}
	},
}

// Release returns the mask to the pool. The mask must not be used afterwards.
func (m *Mask) Release() {
	maskPool.Put(m)
}

// Stats summarises a Mask.
type Stats struct {
	// Blocks is the amount of blocks whose faces were considered.
	Blocks int
	// Visible and Hidden count the faces of those blocks.
	Visible, Hidden int
}

// Add adds the counts of o to s.
func (s *Stats) Add(o Stats) {
	s.Blocks += o.Blocks
	s.Visible += o.Visible
	s.Hidden += o.Hidden
}

// Build works out which faces of the blocks in a section must be drawn, asking the interceptor once for every
// face of every block that renders. Invisible blocks such as air have no faces. If the section is not loaded,
// the mask is empty. The mask may be passed to Release once it is no longer needed.
func Build(w *world.World, sectionPos protocol.SubChunkPos, in backend.Interceptor) (*Mask, Stats) {
	var stats Stats
	m := maskPool.Get().(*Mask)
	*m = Mask{}

	s := w.Section(sectionPos)
	if s == nil {
		return m, stats
	}
	if st, ok := s.Uniform(); ok && (!st.Valid() || st.Type().Layer() == block.LayerInvisible) {
		return m, stats
	}

	origin := world.Origin(sectionPos)
	faces := cube.Faces()
	for x := 0; x < chunk.Size; x++ {
		for z := 0; z < chunk.Size; z++ {
			for y := 0; y < chunk.Size; y++ {
				pos := cube.Pos{origin[0] + x, origin[1] + y, origin[2] + z}
				st, ok := w.Block(pos)
				if !ok || !st.Valid() || st.Type().Layer() == block.LayerInvisible {
					continue
				}
				stats.Blocks++

				var bitsSet uint8
				for _, face := range faces {
					if in.ShouldDrawFace(st, pos, face) {
						bitsSet |= 1 << uint(face)
						stats.Visible++
					} else {
						stats.Hidden++
					}
				}
				m[index(x, y, z)] = bitsSet
			}
		}
	}
	return m, stats
}
