package block

import (
	"strings"

	"github.com/oomph-ac/culling/shape"
	"github.com/zeebo/xxh3"
)

// Property is a single property of a block state.
type Property struct {
	Name  string
	Value string
}

// Properties is the list of properties of a state, sorted by name.
type Properties []Property

// Value returns the value of the property with the name passed.
func (p Properties) Value(name string) (string, bool) {
	for _, prop := range p {
		if prop.Name == name {
			return prop.Value, true
		}
	}
	return "", false
}

// State is a block type together with a value for each of its properties. States are immutable: the
// properties and shape returned must not be modified. The zero State is invalid and is treated like a block
// outside the world.
type State struct {
	t     *Type
	props Properties
	hash  uint64
	shape shape.Shape
}

func newState(t *Type, props Properties) State {
	s := State{t: t, props: props, shape: t.shape}
	if t.shapeFunc != nil {
		s.shape = t.shapeFunc(props)
	}
	s.hash = xxh3.HashString(s.String())
	return s
}

// Valid returns false for the zero State.
func (s State) Valid() bool {
	return s.t != nil
}

// Type returns the block type of the state.
func (s State) Type() *Type {
	return s.t
}

// Properties returns the properties of the state.
func (s State) Properties() Properties {
	return s.props
}

// Shape returns the occlusion shape of the state.
func (s State) Shape() shape.Shape {
	return s.shape
}

// Opaque returns true if the state is rendered in the solid layer, meaning nothing behind it can be seen.
func (s State) Opaque() bool {
	return s.t != nil && s.t.layer == LayerSolid
}

// Hash returns a hash of the type name and properties of the state.
func (s State) Hash() uint64 {
	return s.hash
}

// Equal returns true if both states have the same type and property values.
func (s State) Equal(o State) bool {
	if s.t != o.t || s.hash != o.hash || len(s.props) != len(o.props) {
		return false
	}
	for i := range s.props {
		if s.props[i] != o.props[i] {
			return false
		}
	}
	return true
}

// String encodes the state as name[prop=value,...].
func (s State) String() string {
	if s.t == nil {
		return "<invalid>"
	}
	if len(s.props) == 0 {
		return s.t.name
	}
	var b strings.Builder
	b.WriteString(s.t.name)
	b.WriteByte('[')
	for i, p := range s.props {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Name)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	b.WriteByte(']')
	return b.String()
}
