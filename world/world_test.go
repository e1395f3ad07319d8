package world

import (
	"io"
	"sync"
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/culling/block"
	"github.com/oomph-ac/culling/chunk"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stone = block.Define("test:stone")

func newWorld() *World {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(OverworldRange, log)
}

func TestSectionPos(t *testing.T) {
	assert.Equal(t, protocol.SubChunkPos{0, 0, 0}, SectionPos(cube.Pos{15, 15, 15}))
	assert.Equal(t, protocol.SubChunkPos{-1, -4, 1}, SectionPos(cube.Pos{-1, -64, 16}))
	assert.Equal(t, cube.Pos{-16, -64, 16}, Origin(protocol.SubChunkPos{-1, -4, 1}))
}

func TestBlockBounds(t *testing.T) {
	w := newWorld()

	_, ok := w.Block(cube.Pos{0, 0, 0})
	assert.False(t, ok, "unloaded sections are out of bounds")

	w.SetBlock(cube.Pos{-1, -64, -1}, stone.DefaultState())
	st, ok := w.Block(cube.Pos{-1, -64, -1})
	require.True(t, ok)
	assert.True(t, st.Equal(stone.DefaultState()))

	st, ok = w.Block(cube.Pos{-2, -63, -1})
	require.True(t, ok)
	assert.True(t, st.Equal(block.Air.DefaultState()))

	_, ok = w.Block(cube.Pos{-1, -65, -1})
	assert.False(t, ok, "below the world")
	_, ok = w.Block(cube.Pos{0, 320, 0})
	assert.False(t, ok, "above the world")

	w.SetBlock(cube.Pos{0, 400, 0}, stone.DefaultState())
	assert.Nil(t, w.Section(SectionPos(cube.Pos{0, 400, 0})))
}

func TestSetBlockIgnoresInvalidStates(t *testing.T) {
	w := newWorld()
	w.SetBlock(cube.Pos{0, 0, 0}, block.State{})
	assert.Nil(t, w.Section(SectionPos(cube.Pos{0, 0, 0})), "no section is created for an invalid state")

	w.SetBlock(cube.Pos{0, 0, 0}, stone.DefaultState())
	w.SetBlock(cube.Pos{0, 0, 0}, block.State{})
	st, ok := w.Block(cube.Pos{0, 0, 0})
	require.True(t, ok)
	assert.True(t, st.Equal(stone.DefaultState()))
	assert.Len(t, w.Section(SectionPos(cube.Pos{0, 0, 0})).Palette(), 2)
}

func TestSectionsAndRemove(t *testing.T) {
	w := newWorld()
	for _, pos := range []protocol.SubChunkPos{{1, 0, 0}, {0, 1, 0}, {0, 0, 0}, {0, 0, 1}} {
		w.AddSection(pos, chunk.NewSection(stone.DefaultState()))
	}
	assert.Equal(t, []protocol.SubChunkPos{{0, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 0, 0}}, w.Sections())

	w.RemoveSection(protocol.SubChunkPos{0, 1, 0})
	assert.Len(t, w.Sections(), 3)
	_, ok := w.Block(cube.Pos{0, 16, 0})
	assert.False(t, ok)
}

func TestCleanSections(t *testing.T) {
	w := newWorld()
	w.AddSection(protocol.SubChunkPos{0, 0, 0}, chunk.NewSection(stone.DefaultState()))
	w.AddSection(protocol.SubChunkPos{0, 3, 0}, chunk.NewSection(stone.DefaultState()))
	w.AddSection(protocol.SubChunkPos{5, 0, 5}, chunk.NewSection(stone.DefaultState()))

	assert.Equal(t, 1, w.CleanSections(2, protocol.ChunkPos{0, 0}))
	assert.Equal(t, 0, w.CleanSections(0, protocol.ChunkPos{0, 0}), "same centre is skipped")
	assert.Len(t, w.Sections(), 2)
}

func TestConcurrentAccess(t *testing.T) {
	w := newWorld()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for x := 0; x < 64; x++ {
				w.SetBlock(cube.Pos{x, i, 0}, stone.DefaultState())
			}
		}(i)
		go func() {
			defer wg.Done()
			for x := 0; x < 64; x++ {
				w.Block(cube.Pos{x, 0, 0})
			}
		}()
	}
	wg.Wait()
	for i := 0; i < 4; i++ {
		st, ok := w.Block(cube.Pos{63, i, 0})
		require.True(t, ok)
		assert.True(t, st.Equal(stone.DefaultState()))
	}
}
