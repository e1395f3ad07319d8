package culling

import (
	"fmt"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/culling/assert"
	"github.com/oomph-ac/culling/block"
	"github.com/oomph-ac/culling/capability"
	"github.com/oomph-ac/culling/oerror"
	"github.com/sirupsen/logrus"
)

// Grid gives read access to the blocks of a world. Implementations must be safe for concurrent use. Block
// returns false if the position is outside the part of the world known to the grid.
type Grid interface {
	Block(pos cube.Pos) (block.State, bool)
}

// FlagSource reports whether block-state culling is enabled. It is read on every decision.
type FlagSource interface {
	Enabled() bool
}

// Engine decides whether block faces must be drawn. It keeps no state between calls: every decision depends
// only on its arguments, the flag and the capability registry, so an Engine may be shared by any number of
// meshing goroutines.
type Engine struct {
	flag FlagSource
	reg  *capability.Registry
	log  *logrus.Logger
	obs  Observer
}

// Option configures an Engine.
type Option func(e *Engine)

// WithObserver makes the engine report the outcome of every decision to o.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.obs = o
	}
}

// New returns an engine reading the flag and registry passed. The registry should be closed before the engine
// is used from more than one goroutine. If log is nil, the standard logrus logger is used.
func New(flag FlagSource, reg *capability.Registry, log *logrus.Logger, opts ...Option) *Engine {
	assert.IsTrue(flag != nil, "culling engine needs a flag source")
	assert.IsTrue(reg != nil, "culling engine needs a capability registry")
	if log == nil {
		log = logrus.StandardLogger()
	}
	e := &Engine{flag: flag, reg: reg, log: log, obs: nopObserver{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ShouldDrawFace decides if the face of self at pos pointing in the direction of face must be drawn.
// neighbourPos must be pos.Side(face); it is not recomputed here. If opinion is false, block-state culling is
// disabled and the caller must fall back to its own occlusion test. ShouldDrawFace never panics: any failure
// while deciding results in the face being drawn.
func (e *Engine) ShouldDrawFace(self block.State, grid Grid, pos cube.Pos, face cube.Face, neighbourPos cube.Pos) (draw, opinion bool) {
	defer func() {
		if r := recover(); r != nil {
			e.recovered(r, self, pos, face)
			draw, opinion = true, true
		}
	}()
	if !e.flag.Enabled() {
		e.obs.Observe(NoOpinion)
		return false, false
	}

	neighbour, ok := grid.Block(neighbourPos)
	if !ok || !neighbour.Valid() {
		e.obs.Observe(OutOfBounds)
		return true, true
	}

	if f, ok := e.reg.Lookup(self.Type()); ok {
		switch f(self, neighbour, face) {
		case capability.Hidden:
			e.obs.Observe(CapabilityHidden)
			return false, true
		case capability.Visible:
			e.obs.Observe(CapabilityVisible)
			return true, true
		}
	}

	if Default(self, neighbour, face) {
		e.obs.Observe(DefaultVisible)
		return true, true
	}
	e.obs.Observe(DefaultHidden)
	return false, true
}

// recovered reports a panic that happened while deciding on a face.
func (e *Engine) recovered(r any, self block.State, pos cube.Pos, face cube.Face) {
	e.obs.Observe(Recovered)
	e.log.WithFields(logrus.Fields{
		"block": self.String(),
		"pos":   pos,
		"face":  faceName(face),
	}).Errorf("culling decision panicked, drawing face: %v", r)

	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("block", self.String())
		scope.SetTag("face", faceName(face))
	})
	hub.Recover(oerror.New("culling decision panicked: %v", r))
}

func faceName(f cube.Face) string {
	switch f {
	case cube.FaceDown:
		return "down"
	case cube.FaceUp:
		return "up"
	case cube.FaceNorth:
		return "north"
	case cube.FaceSouth:
		return "south"
	case cube.FaceWest:
		return "west"
	case cube.FaceEast:
		return "east"
	}
	return fmt.Sprintf("Face(%d)", int(f))
}
