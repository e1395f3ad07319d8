package culling

import (
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/culling/block"
	"github.com/oomph-ac/culling/capability"
	"github.com/oomph-ac/culling/config"
	"github.com/oomph-ac/culling/shape"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	stone        = block.Define("test:stone")
	glass        = block.Define("test:glass", block.WithLayer(block.LayerCutout))
	leaves       = block.Define("test:leaves", block.WithLayer(block.LayerCutout))
	water        = block.Define("test:water", block.WithLayer(block.LayerTranslucent), block.WithProperty("level", "0", "1"))
	hiddenAlways = block.Define("test:hidden_always")
	panicky      = block.Define("test:panicky")

	slab = block.Define("test:slab", block.WithProperty("type", "bottom", "top"), block.WithShapeFunc(func(p block.Properties) shape.Shape {
		v, _ := p.Value("type")
		return shape.Slab(v == "top")
	}))
)

type mapGrid map[cube.Pos]block.State

func (g mapGrid) Block(pos cube.Pos) (block.State, bool) {
	s, ok := g[pos]
	return s, ok
}

type panicGrid struct{}

func (panicGrid) Block(cube.Pos) (block.State, bool) {
	panic("grid exploded")
}

type countingObserver struct {
	counts [8]atomic.Int64
}

func (c *countingObserver) Observe(o Outcome) {
	c.counts[o].Add(1)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newEngine(t testing.TB, flag *config.Flag, opts ...Option) *Engine {
	t.Helper()
	reg := capability.NewRegistry(capability.RejectDuplicates, quietLogger())
	require.NoError(t, reg.Register(glass, capability.SameType(capability.Hidden)))
	require.NoError(t, reg.Register(water, capability.SameState(capability.Hidden)))
	require.NoError(t, reg.Register(hiddenAlways, capability.Always(capability.Hidden)))
	require.NoError(t, reg.Register(leaves, capability.Always(capability.Defer)))
	require.NoError(t, reg.Register(panicky, func(block.State, block.State, cube.Face) capability.Decision {
		panic("capability exploded")
	}))
	require.NoError(t, reg.Close())
	return New(flag, reg, quietLogger(), opts...)
}

func pair(self, neighbour block.State, face cube.Face) (mapGrid, cube.Pos, cube.Pos) {
	pos := cube.Pos{0, 64, 0}
	n := pos.Side(face)
	return mapGrid{pos: self, n: neighbour}, pos, n
}

func TestSolidNeighbourHidesFace(t *testing.T) {
	e := newEngine(t, config.NewFlag(true))
	for _, face := range cube.Faces() {
		g, pos, n := pair(stone.DefaultState(), stone.DefaultState(), face)
		draw, opinion := e.ShouldDrawFace(stone.DefaultState(), g, pos, face, n)
		assert.True(t, opinion)
		assert.False(t, draw, "face %v", faceName(face))
	}
}

func TestOutOfBoundsNeighbourIsVisible(t *testing.T) {
	e := newEngine(t, config.NewFlag(true))
	pos := cube.Pos{0, 64, 0}
	g := mapGrid{pos: stone.DefaultState()}
	draw, opinion := e.ShouldDrawFace(stone.DefaultState(), g, pos, cube.FaceUp, pos.Side(cube.FaceUp))
	assert.True(t, opinion)
	assert.True(t, draw)

	// A zero state counts as missing too.
	g[pos.Side(cube.FaceUp)] = block.State{}
	draw, _ = e.ShouldDrawFace(stone.DefaultState(), g, pos, cube.FaceUp, pos.Side(cube.FaceUp))
	assert.True(t, draw)
}

func TestCapabilityHiddenIgnoresTransparentNeighbour(t *testing.T) {
	e := newEngine(t, config.NewFlag(true))
	g, pos, n := pair(hiddenAlways.DefaultState(), block.Air.DefaultState(), cube.FaceNorth)
	draw, opinion := e.ShouldDrawFace(hiddenAlways.DefaultState(), g, pos, cube.FaceNorth, n)
	assert.True(t, opinion)
	assert.False(t, draw)
}

func TestFlagOffHasNoOpinion(t *testing.T) {
	flag := config.NewFlag(true)
	e := newEngine(t, flag)
	g, pos, n := pair(stone.DefaultState(), stone.DefaultState(), cube.FaceUp)

	_, opinion := e.ShouldDrawFace(stone.DefaultState(), g, pos, cube.FaceUp, n)
	require.True(t, opinion)

	flag.Set(false)
	for _, s := range []block.State{stone.DefaultState(), hiddenAlways.DefaultState(), panicky.DefaultState()} {
		_, opinion = e.ShouldDrawFace(s, g, pos, cube.FaceUp, n)
		assert.False(t, opinion)
	}
	_, opinion = e.ShouldDrawFace(stone.DefaultState(), panicGrid{}, pos, cube.FaceUp, n)
	assert.False(t, opinion)
}

func TestCapabilityTakesPrecedence(t *testing.T) {
	e := newEngine(t, config.NewFlag(true))

	// Glass next to glass: the default keeps the face because glass is not opaque.
	g, pos, n := pair(glass.DefaultState(), glass.DefaultState(), cube.FaceEast)
	assert.True(t, Default(glass.DefaultState(), glass.DefaultState(), cube.FaceEast))
	draw, _ := e.ShouldDrawFace(glass.DefaultState(), g, pos, cube.FaceEast, n)
	assert.False(t, draw)

	// Glass next to stone: the capability defers and the default hides the face.
	g, pos, n = pair(glass.DefaultState(), stone.DefaultState(), cube.FaceEast)
	draw, _ = e.ShouldDrawFace(glass.DefaultState(), g, pos, cube.FaceEast, n)
	assert.False(t, draw)

	// Water with different levels keeps the face between them.
	low, err := water.State(map[string]string{"level": "1"})
	require.NoError(t, err)
	g, pos, n = pair(water.DefaultState(), low, cube.FaceSouth)
	draw, _ = e.ShouldDrawFace(water.DefaultState(), g, pos, cube.FaceSouth, n)
	assert.True(t, draw)
	g, pos, n = pair(water.DefaultState(), water.DefaultState(), cube.FaceSouth)
	draw, _ = e.ShouldDrawFace(water.DefaultState(), g, pos, cube.FaceSouth, n)
	assert.False(t, draw)
}

func TestDeferMatchesUnregistered(t *testing.T) {
	e := newEngine(t, config.NewFlag(true))
	neighbours := []block.State{stone.DefaultState(), glass.DefaultState(), block.Air.DefaultState(), slab.DefaultState()}
	for _, face := range cube.Faces() {
		for _, nb := range neighbours {
			g, pos, n := pair(leaves.DefaultState(), nb, face)
			draw, opinion := e.ShouldDrawFace(leaves.DefaultState(), g, pos, face, n)
			assert.True(t, opinion)
			assert.Equal(t, Default(leaves.DefaultState(), nb, face), draw)
		}
	}
}

func TestDefaultIsConservative(t *testing.T) {
	top, err := slab.State(map[string]string{"type": "top"})
	require.NoError(t, err)
	bottom := slab.DefaultState()

	// Non-opaque neighbours never hide anything.
	for _, face := range cube.Faces() {
		assert.True(t, Default(stone.DefaultState(), glass.DefaultState(), face))
		assert.True(t, Default(stone.DefaultState(), block.Air.DefaultState(), face))
	}
	// The underside of a bottom slab lies on the stone's top face and covers it.
	assert.False(t, Default(stone.DefaultState(), bottom, cube.FaceUp))
	// A top slab above stone covers nothing of the face below it.
	assert.True(t, Default(stone.DefaultState(), top, cube.FaceUp))
	// Stone above a bottom slab: the slab has nothing on its top face plane.
	assert.True(t, Default(bottom, stone.DefaultState(), cube.FaceUp))
	// Stone below a bottom slab hides the slab's bottom face.
	assert.False(t, Default(bottom, stone.DefaultState(), cube.FaceDown))
	// Two bottom slabs side by side hide each other.
	assert.False(t, Default(bottom, bottom, cube.FaceWest))
	// A top slab does not cover the side of a bottom slab.
	assert.True(t, Default(bottom, top, cube.FaceWest))
}

func TestDeterminism(t *testing.T) {
	e := newEngine(t, config.NewFlag(true))
	g, pos, n := pair(slab.DefaultState(), stone.DefaultState(), cube.FaceNorth)
	first, _ := e.ShouldDrawFace(slab.DefaultState(), g, pos, cube.FaceNorth, n)
	for i := 0; i < 100; i++ {
		draw, opinion := e.ShouldDrawFace(slab.DefaultState(), g, pos, cube.FaceNorth, n)
		require.True(t, opinion)
		require.Equal(t, first, draw)
	}
}

func TestPanicsAreRecoveredAsVisible(t *testing.T) {
	obs := &countingObserver{}
	e := newEngine(t, config.NewFlag(true), WithObserver(obs))

	g, pos, n := pair(panicky.DefaultState(), stone.DefaultState(), cube.FaceUp)
	var draw, opinion bool
	require.NotPanics(t, func() {
		draw, opinion = e.ShouldDrawFace(panicky.DefaultState(), g, pos, cube.FaceUp, n)
	})
	assert.True(t, draw)
	assert.True(t, opinion)

	require.NotPanics(t, func() {
		draw, opinion = e.ShouldDrawFace(stone.DefaultState(), panicGrid{}, pos, cube.FaceUp, n)
	})
	assert.True(t, draw)
	assert.True(t, opinion)
	assert.EqualValues(t, 2, obs.counts[Recovered].Load())
}

type panicFlag struct{}

func (panicFlag) Enabled() bool {
	panic("flag unavailable")
}

func TestPanickingFlagIsRecoveredAsVisible(t *testing.T) {
	reg := capability.NewRegistry(capability.RejectDuplicates, quietLogger())
	require.NoError(t, reg.Close())
	obs := &countingObserver{}
	e := New(panicFlag{}, reg, quietLogger(), WithObserver(obs))

	g, pos, n := pair(stone.DefaultState(), stone.DefaultState(), cube.FaceUp)
	var draw, opinion bool
	require.NotPanics(t, func() {
		draw, opinion = e.ShouldDrawFace(stone.DefaultState(), g, pos, cube.FaceUp, n)
	})
	assert.True(t, draw)
	assert.True(t, opinion)
	assert.EqualValues(t, 1, obs.counts[Recovered].Load())
}

func TestNewRequiresFlagAndRegistry(t *testing.T) {
	reg := capability.NewRegistry(capability.RejectDuplicates, quietLogger())
	assert.Panics(t, func() { New(nil, reg, quietLogger()) })
	assert.Panics(t, func() { New(config.NewFlag(true), nil, quietLogger()) })
}

func TestObserverOutcomes(t *testing.T) {
	obs := &countingObserver{}
	flag := config.NewFlag(true)
	e := newEngine(t, flag, WithObserver(obs))

	g, pos, n := pair(stone.DefaultState(), stone.DefaultState(), cube.FaceUp)
	e.ShouldDrawFace(stone.DefaultState(), g, pos, cube.FaceUp, n)
	g, pos, n = pair(stone.DefaultState(), block.Air.DefaultState(), cube.FaceUp)
	e.ShouldDrawFace(stone.DefaultState(), g, pos, cube.FaceUp, n)
	e.ShouldDrawFace(stone.DefaultState(), mapGrid{}, pos, cube.FaceUp, n)
	g, pos, n = pair(glass.DefaultState(), glass.DefaultState(), cube.FaceUp)
	e.ShouldDrawFace(glass.DefaultState(), g, pos, cube.FaceUp, n)
	flag.Set(false)
	e.ShouldDrawFace(stone.DefaultState(), g, pos, cube.FaceUp, n)

	assert.EqualValues(t, 1, obs.counts[DefaultHidden].Load())
	assert.EqualValues(t, 1, obs.counts[DefaultVisible].Load())
	assert.EqualValues(t, 1, obs.counts[OutOfBounds].Load())
	assert.EqualValues(t, 1, obs.counts[CapabilityHidden].Load())
	assert.EqualValues(t, 1, obs.counts[NoOpinion].Load())
	assert.EqualValues(t, 0, obs.counts[CapabilityVisible].Load())
}

func TestConcurrentDecisionsWithToggling(t *testing.T) {
	flag := config.NewFlag(true)
	e := newEngine(t, flag)
	g, pos, n := pair(stone.DefaultState(), stone.DefaultState(), cube.FaceUp)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				draw, opinion := e.ShouldDrawFace(stone.DefaultState(), g, pos, cube.FaceUp, n)
				if opinion && draw {
					t.Errorf("stone face under stone must be hidden")
					return
				}
			}
		}()
	}
	for j := 0; j < 100; j++ {
		flag.Toggle()
	}
	wg.Wait()
}

func TestExplain(t *testing.T) {
	flag := config.NewFlag(true)
	e := newEngine(t, flag)
	g, pos, n := pair(glass.DefaultState(), stone.DefaultState(), cube.FaceUp)

	trace := e.Explain(glass.DefaultState(), g, pos, cube.FaceUp, n)
	assert.Equal(t, []string{"block", "pos", "face", "enabled", "opinion", "neighbour", "capability", "neighbour_opaque", "self_face_empty", "covered", "draw"}, trace.Keys())
	draw, _ := trace.Get("draw")
	assert.Equal(t, false, draw)
	c, _ := trace.Get("capability")
	assert.Equal(t, "defer", c)

	trace = e.Explain(glass.DefaultState(), g, pos, cube.FaceUp, pos)
	_, ok := trace.Get("warning")
	assert.True(t, ok)

	flag.Set(false)
	trace = e.Explain(glass.DefaultState(), g, pos, cube.FaceUp, n)
	assert.Equal(t, "[block=test:glass pos="+pos.String()+" face=up enabled=false opinion=false draw=false]", FormatTrace(trace))
}

func BenchmarkShouldDrawFace(b *testing.B) {
	e := newEngine(b, config.NewFlag(true))
	g, pos, n := pair(slab.DefaultState(), stone.DefaultState(), cube.FaceNorth)
	self := slab.DefaultState()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.ShouldDrawFace(self, g, pos, cube.FaceNorth, n)
	}
}
