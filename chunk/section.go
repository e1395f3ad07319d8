package chunk

import (
	"github.com/oomph-ac/culling/block"
)

// Size is the length of a section along every axis.
const Size = 16

// Section is a 16x16x16 cube of block states, stored as indices into a palette. A Section is not safe for
// concurrent writes; the world it belongs to guards it.
type Section struct {
	palette []block.State
	lookup  map[uint64]uint16
	blocks  [Size * Size * Size]uint16
}

// NewSection returns a section with every block set to fill.
func NewSection(fill block.State) *Section {
	return &Section{
		palette: []block.State{fill},
		lookup:  map[uint64]uint16{fill.Hash(): 0},
	}
}

// index returns the index of the block at the local coordinates passed.
func index(x, y, z uint8) uint16 {
	return uint16(x&15)<<8 | uint16(z&15)<<4 | uint16(y&15)
}

// Block returns the block at the local coordinates passed. Only the lower four bits of each coordinate are
// used.
func (s *Section) Block(x, y, z uint8) block.State {
	return s.palette[s.blocks[index(x, y, z)]]
}

// SetBlock sets the block at the local coordinates passed.
func (s *Section) SetBlock(x, y, z uint8, st block.State) {
	s.blocks[index(x, y, z)] = s.paletteIndex(st)
}

// paletteIndex returns the palette index of st, adding it to the palette if needed.
func (s *Section) paletteIndex(st block.State) uint16 {
	h := st.Hash()
	if i, ok := s.lookup[h]; ok && s.palette[i].Equal(st) {
		return i
	}
	for i, p := range s.palette {
		if p.Equal(st) {
			return uint16(i)
		}
	}
	i := uint16(len(s.palette))
	s.palette = append(s.palette, st)
	if _, ok := s.lookup[h]; !ok {
		s.lookup[h] = i
	}
	return i
}

// Palette returns the states currently in the palette of the section. Some of them may no longer be used
// until Compact is called.
func (s *Section) Palette() []block.State {
	return s.palette
}

// Uniform returns true if every block of the section has the same state.
func (s *Section) Uniform() (block.State, bool) {
	first := s.blocks[0]
	for _, b := range s.blocks[1:] {
		if b != first {
			return block.State{}, false
		}
	}
	return s.palette[first], true
}

// Compact removes unused states from the palette.
func (s *Section) Compact() {
	used := make([]bool, len(s.palette))
	for _, b := range s.blocks {
		used[b] = true
	}
	remap := make([]uint16, len(s.palette))
	palette := s.palette[:0:0]
	lookup := make(map[uint64]uint16, len(s.palette))
	for i, st := range s.palette {
		if !used[i] {
			continue
		}
		remap[i] = uint16(len(palette))
		if _, ok := lookup[st.Hash()]; !ok {
			lookup[st.Hash()] = uint16(len(palette))
		}
		palette = append(palette, st)
	}
	for i, b := range s.blocks {
		s.blocks[i] = remap[b]
	}
	s.palette, s.lookup = palette, lookup
}
