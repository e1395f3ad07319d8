package backend

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/culling/block"
	"github.com/oomph-ac/culling/culling"
	"github.com/oomph-ac/culling/platform"
)

// Decider makes face culling decisions. *culling.Engine implements it.
type Decider interface {
	ShouldDrawFace(self block.State, grid culling.Grid, pos cube.Pos, face cube.Face, neighbourPos cube.Pos) (draw, opinion bool)
}

// Interceptor is the point where a renderer asks whether a face must be drawn. An interceptor calls the
// Decider exactly once per face and falls back to the renderer's own test if the Decider has no opinion.
type Interceptor interface {
	// Name returns the name of the backend the interceptor belongs to.
	Name() string
	// ShouldDrawFace returns true if the face of self at pos must be drawn.
	ShouldDrawFace(self block.State, pos cube.Pos, face cube.Face) bool
}

// Backend creates interceptors for one renderer.
type Backend struct {
	Name string
	// Mod is the mod that must be loaded for the backend to be used. Backends without a mod are always
	// available.
	Mod string
	// New returns an interceptor reading blocks from g.
	New func(d Decider, g culling.Grid) Interceptor
}

// Vanilla returns the backend used when no other renderer is present.
func Vanilla() Backend {
	return Backend{Name: "vanilla", New: func(d Decider, g culling.Grid) Interceptor {
		return NewBlockView(d, g)
	}}
}

// Alternative returns the backend of the alternative chunk builder, available when the mod passed is loaded.
func Alternative(mod string) Backend {
	return Backend{Name: "render_context", Mod: mod, New: func(d Decider, g culling.Grid) Interceptor {
		return NewRenderContext(d, g)
	}}
}

// Select returns the first candidate whose mod is loaded. Only one backend is ever active: if no candidate
// is available, the vanilla backend is returned.
func Select(helper platform.Helper, candidates ...Backend) Backend {
	for _, c := range candidates {
		if c.New == nil {
			continue
		}
		if c.Mod == "" || helper.ModLoaded(c.Mod) {
			return c
		}
	}
	return Vanilla()
}
