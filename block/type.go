package block

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/oomph-ac/culling/assert"
	"github.com/oomph-ac/culling/shape"
)

// RenderLayer is the layer a block is rendered in. Only blocks in the solid layer can hide the faces of
// their neighbours.
type RenderLayer uint8

const (
	LayerSolid RenderLayer = iota
	LayerCutout
	LayerTranslucent
	LayerInvisible
)

func (l RenderLayer) String() string {
	switch l {
	case LayerSolid:
		return "solid"
	case LayerCutout:
		return "cutout"
	case LayerTranslucent:
		return "translucent"
	case LayerInvisible:
		return "invisible"
	}
	return fmt.Sprintf("RenderLayer(%d)", uint8(l))
}

// ParseRenderLayer parses the name of a render layer as returned by RenderLayer.String.
func ParseRenderLayer(s string) (RenderLayer, error) {
	for l := LayerSolid; l <= LayerInvisible; l++ {
		if l.String() == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown render layer %q", s)
}

// PropertyDef declares a property of a block type and the values it may take. The first value is the default.
type PropertyDef struct {
	Name   string
	Values []string
}

// typeCount holds the amount of block types defined so far. Every type gets the next value as its ID.
var typeCount atomic.Uint32

// Type is the identity of a kind of block. Types are compared by pointer, and each has a dense numeric ID
// which the capability registry uses for indexed lookups.
type Type struct {
	id    uint32
	name  string
	layer RenderLayer
	props []PropertyDef

	shape     shape.Shape
	shapeFunc func(Properties) shape.Shape
}

// Option configures a Type passed to Define.
type Option func(t *Type)

// WithLayer sets the render layer of the type. Types are solid by default.
func WithLayer(l RenderLayer) Option {
	return func(t *Type) {
		t.layer = l
	}
}

// WithShape sets an occlusion shape shared by every state of the type.
func WithShape(s shape.Shape) Option {
	return func(t *Type) {
		t.shape = s
		t.shapeFunc = nil
	}
}

// WithShapeFunc sets a function computing the occlusion shape of each state from its properties. It is
// called once per state when the state is created.
func WithShapeFunc(f func(Properties) shape.Shape) Option {
	return func(t *Type) {
		t.shapeFunc = f
	}
}

// WithProperty declares a property and its allowed values.
func WithProperty(name string, values ...string) Option {
	return func(t *Type) {
		t.props = append(t.props, PropertyDef{Name: name, Values: slices.Clone(values)})
	}
}

// Define creates a new block type. Types without WithShape or WithShapeFunc are full cubes.
func Define(name string, opts ...Option) *Type {
	t := &Type{
		id:    typeCount.Add(1) - 1,
		name:  name,
		shape: shape.Full(),
	}
	for _, opt := range opts {
		opt(t)
	}
	for _, p := range t.props {
		assert.IsTrue(len(p.Values) > 0, "property %s of block %s has no values", p.Name, name)
	}
	slices.SortFunc(t.props, func(a, b PropertyDef) int {
		if a.Name < b.Name {
			return -1
		} else if a.Name > b.Name {
			return 1
		}
		return 0
	})
	return t
}

// Types returns the amount of block types defined so far. It is one more than the highest ID in use.
func Types() uint32 {
	return typeCount.Load()
}

// ID returns the dense numeric ID of the type.
func (t *Type) ID() uint32 {
	return t.id
}

// Name returns the name of the type, for example "minecraft:stone".
func (t *Type) Name() string {
	return t.name
}

// Layer returns the render layer of the type.
func (t *Type) Layer() RenderLayer {
	return t.layer
}

// Properties returns the property declarations of the type, sorted by name.
func (t *Type) Properties() []PropertyDef {
	return slices.Clone(t.props)
}

// DefaultState returns the state of the type where every property has its first value.
func (t *Type) DefaultState() State {
	s, _ := t.State(nil)
	return s
}

// State returns the state of the type with the property values passed. Properties that are not set take
// their default value. An error is returned if a property is unknown or a value is not allowed.
func (t *Type) State(values map[string]string) (State, error) {
	for name := range values {
		if !slices.ContainsFunc(t.props, func(p PropertyDef) bool { return p.Name == name }) {
			return State{}, fmt.Errorf("block %s has no property %q", t.name, name)
		}
	}
	props := make(Properties, 0, len(t.props))
	for _, def := range t.props {
		v, ok := values[def.Name]
		if !ok {
			v = def.Values[0]
		} else if !slices.Contains(def.Values, v) {
			return State{}, fmt.Errorf("block %s: invalid value %q for property %q", t.name, v, def.Name)
		}
		props = append(props, Property{Name: def.Name, Value: v})
	}
	return newState(t, props), nil
}

// States returns every state of the type, one for each combination of property values.
func (t *Type) States() []State {
	combos := []Properties{{}}
	for _, def := range t.props {
		next := make([]Properties, 0, len(combos)*len(def.Values))
		for _, c := range combos {
			for _, v := range def.Values {
				next = append(next, append(slices.Clone(c), Property{Name: def.Name, Value: v}))
			}
		}
		combos = next
	}
	states := make([]State, 0, len(combos))
	for _, c := range combos {
		states = append(states, newState(t, c))
	}
	return states
}

func (t *Type) String() string {
	return t.name
}
