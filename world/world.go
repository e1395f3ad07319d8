package world

import (
	"slices"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/culling/block"
	"github.com/oomph-ac/culling/chunk"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// OverworldRange is the vertical range of an overworld.
var OverworldRange = cube.Range{-64, 319}

// World is a set of loaded sections. Positions outside the vertical range of the world, or in sections that
// are not loaded, are out of bounds. A World is safe for concurrent use.
type World struct {
	rng      cube.Range
	log      *logrus.Logger
	sections map[protocol.SubChunkPos]*chunk.Section

	lastCleanPos protocol.ChunkPos
	cleaned      bool

	deadlock.RWMutex
}

// New creates an empty world with the vertical range passed. If log is nil, the standard logrus logger is
// used.
func New(rng cube.Range, log *logrus.Logger) *World {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &World{
		rng:      rng,
		log:      log,
		sections: make(map[protocol.SubChunkPos]*chunk.Section),
	}
}

// Range returns the vertical range of the world.
func (w *World) Range() cube.Range {
	return w.rng
}

// SectionPos returns the position of the section holding the block position passed.
func SectionPos(pos cube.Pos) protocol.SubChunkPos {
	return protocol.SubChunkPos{int32(pos[0]) >> 4, int32(pos[1]) >> 4, int32(pos[2]) >> 4}
}

// Origin returns the block position of the lowest corner of a section.
func Origin(pos protocol.SubChunkPos) cube.Pos {
	return cube.Pos{int(pos[0]) << 4, int(pos[1]) << 4, int(pos[2]) << 4}
}

// AddSection adds a section to the world, replacing any section already loaded at the same position.
func (w *World) AddSection(pos protocol.SubChunkPos, s *chunk.Section) {
	w.Lock()
	defer w.Unlock()
	w.sections[pos] = s
}

// Section returns the section at the position passed, or nil if it is not loaded.
func (w *World) Section(pos protocol.SubChunkPos) *chunk.Section {
	w.RLock()
	s := w.sections[pos]
	w.RUnlock()

	return s
}

// RemoveSection unloads the section at the position passed.
func (w *World) RemoveSection(pos protocol.SubChunkPos) {
	w.Lock()
	defer w.Unlock()
	delete(w.sections, pos)
}

// Sections returns the positions of all loaded sections, sorted by X, then Z, then Y.
func (w *World) Sections() []protocol.SubChunkPos {
	w.RLock()
	positions := make([]protocol.SubChunkPos, 0, len(w.sections))
	for pos := range w.sections {
		positions = append(positions, pos)
	}
	w.RUnlock()

	slices.SortFunc(positions, func(a, b protocol.SubChunkPos) int {
		for _, i := range [3]int{0, 2, 1} {
			if a[i] != b[i] {
				if a[i] < b[i] {
					return -1
				}
				return 1
			}
		}
		return 0
	})
	return positions
}

// Block returns the block at the position passed. It returns false if the position is outside the vertical
// range of the world or its section is not loaded.
func (w *World) Block(pos cube.Pos) (block.State, bool) {
	if pos.OutOfBounds(w.rng) {
		return block.State{}, false
	}
	w.RLock()
	defer w.RUnlock()
	s, ok := w.sections[SectionPos(pos)]
	if !ok {
		return block.State{}, false
	}
	return s.Block(uint8(pos[0]), uint8(pos[1]), uint8(pos[2])), true
}

// SetBlock sets the block at the position passed. If the section is not loaded yet, a section filled with air
// is created first. Positions outside the vertical range of the world and invalid states are ignored.
func (w *World) SetBlock(pos cube.Pos, st block.State) {
	if !st.Valid() || pos.OutOfBounds(w.rng) {
		return
	}
	sectionPos := SectionPos(pos)

	w.Lock()
	defer w.Unlock()

	s, ok := w.sections[sectionPos]
	if !ok {
		s = chunk.NewSection(block.Air.DefaultState())
		w.sections[sectionPos] = s
	}
	s.SetBlock(uint8(pos[0]), uint8(pos[1]), uint8(pos[2]), st)
}

// CleanSections unloads every section whose column lies further than radius columns away from pos. It
// returns the amount of sections removed.
func (w *World) CleanSections(radius int32, pos protocol.ChunkPos) int {
	w.Lock()
	defer w.Unlock()

	if w.cleaned && pos == w.lastCleanPos {
		return 0
	}
	w.lastCleanPos, w.cleaned = pos, true

	var removed int
	for sectionPos := range w.sections {
		if !columnInRange(radius, protocol.ChunkPos{sectionPos[0], sectionPos[2]}, pos) {
			delete(w.sections, sectionPos)
			removed++
		}
	}
	if removed > 0 {
		w.log.WithFields(logrus.Fields{"pos": pos, "radius": radius, "removed": removed}).Debug("cleaned sections")
	}
	return removed
}

// columnInRange returns true if the column position is within the given radius of the column position.
func columnInRange(radius int32, columnPos, pos protocol.ChunkPos) bool {
	diffX, diffZ := pos[0]-columnPos[0], pos[1]-columnPos[1]
	dist := math32.Sqrt(float32(diffX*diffX) + float32(diffZ*diffZ))

	return int32(dist) <= radius
}
