package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sync"

	_ "embed"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/culling/assert"
	"github.com/oomph-ac/culling/block"
	"github.com/oomph-ac/culling/capability"
	"github.com/oomph-ac/culling/shape"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var (
	//go:embed data/blocks.json
	blockData []byte
	//go:embed data/blocks.schema.json
	schemaData []byte
)

const schemaURL = "https://oomph-ac.github.io/culling/blocks.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// compiledSchema returns the schema every catalog document is validated against.
func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaData)); err != nil {
			schemaErr = fmt.Errorf("add catalog schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

type (
	// encodedShapes maps shape IDs to boxes encoded as [originX, originY, originZ, sizeX, sizeY, sizeZ].
	encodedShapes map[int][][6]float32

	encodedProperty struct {
		Name   string   `json:"name" yaml:"name"`
		Values []string `json:"values" yaml:"values"`
	}
	encodedState struct {
		When  map[string]string `json:"when" yaml:"when"`
		Shape int               `json:"shape" yaml:"shape"`
	}
	encodedBlock struct {
		Name       string            `json:"name" yaml:"name"`
		Layer      string            `json:"layer" yaml:"layer"`
		Capability string            `json:"capability" yaml:"capability"`
		Properties []encodedProperty `json:"properties" yaml:"properties"`
		Shape      *int              `json:"shape" yaml:"shape"`
		States     []encodedState    `json:"states" yaml:"states"`
	}
	document struct {
		Shapes encodedShapes  `json:"shapes" yaml:"shapes"`
		Blocks []encodedBlock `json:"blocks" yaml:"blocks"`
	}
)

// Catalog holds the block types known to the program, by name. Air is always present.
type Catalog struct {
	log *logrus.Logger

	mu    deadlock.RWMutex
	types map[string]*block.Type
	order []*block.Type
	caps  map[*block.Type]string
}

// New returns a catalog holding only air. If log is nil, the standard logrus logger is used.
func New(log *logrus.Logger) *Catalog {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Catalog{
		log:   log,
		types: map[string]*block.Type{block.Air.Name(): block.Air},
		order: []*block.Type{block.Air},
		caps:  make(map[*block.Type]string),
	}
}

// Load returns a catalog holding the built-in block types. Every call defines new block types.
func Load(log *logrus.Logger) (*Catalog, error) {
	c := New(log)
	if err := c.LoadJSON(blockData); err != nil {
		return nil, fmt.Errorf("load built-in catalog: %w", err)
	}
	return c, nil
}

// LoadJSON validates a catalog document and defines the block types it lists. If any entry is invalid,
// nothing is defined.
func (c *Catalog) LoadJSON(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode catalog: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("validate catalog: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode catalog: %w", err)
	}
	return c.define(doc)
}

// LoadYAML reads an overlay in YAML with the same structure as the JSON catalog and defines the block types
// it lists. Overlays may only add new types.
func (c *Catalog) LoadYAML(r io.Reader) error {
	var v any
	if err := yaml.NewDecoder(r).Decode(&v); err != nil {
		return fmt.Errorf("decode catalog overlay: %w", err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode catalog overlay: %w", err)
	}
	return c.LoadJSON(data)
}

// define checks every entry of doc and then defines the block types.
func (c *Catalog) define(doc document) error {
	shapes := make(map[int]shape.Shape, len(doc.Shapes))
	for id, boxes := range doc.Shapes {
		shapes[id] = decodeShape(boxes)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]struct{}, len(doc.Blocks))
	for _, b := range doc.Blocks {
		if _, ok := c.types[b.Name]; ok {
			return fmt.Errorf("block %s is already defined", b.Name)
		}
		if _, ok := seen[b.Name]; ok {
			return fmt.Errorf("block %s is listed twice", b.Name)
		}
		seen[b.Name] = struct{}{}
		if err := check(b, shapes); err != nil {
			return err
		}
	}

	for _, b := range doc.Blocks {
		t := block.Define(b.Name, options(b, shapes)...)
		c.types[b.Name] = t
		c.order = append(c.order, t)
		if b.Capability != "" {
			c.caps[t] = b.Capability
		}
	}
	c.log.Debugf("catalog defined %d block types", len(doc.Blocks))
	return nil
}

// check validates the parts of an entry the schema cannot express.
func check(b encodedBlock, shapes map[int]shape.Shape) error {
	if b.Layer != "" {
		if _, err := block.ParseRenderLayer(b.Layer); err != nil {
			return fmt.Errorf("block %s: %w", b.Name, err)
		}
	}
	if b.Shape != nil {
		if _, ok := shapes[*b.Shape]; !ok {
			return fmt.Errorf("block %s: unknown shape %d", b.Name, *b.Shape)
		}
	}
	for _, st := range b.States {
		if _, ok := shapes[st.Shape]; !ok {
			return fmt.Errorf("block %s: unknown shape %d", b.Name, st.Shape)
		}
		for name, value := range st.When {
			i := slices.IndexFunc(b.Properties, func(p encodedProperty) bool { return p.Name == name })
			if i == -1 {
				return fmt.Errorf("block %s: state refers to unknown property %q", b.Name, name)
			}
			if !slices.Contains(b.Properties[i].Values, value) {
				return fmt.Errorf("block %s: state refers to unknown value %q of property %q", b.Name, value, name)
			}
		}
	}
	return nil
}

// options returns the block options for an entry that passed check.
func options(b encodedBlock, shapes map[int]shape.Shape) []block.Option {
	var opts []block.Option
	if b.Layer != "" {
		l, _ := block.ParseRenderLayer(b.Layer)
		opts = append(opts, block.WithLayer(l))
	}
	for _, p := range b.Properties {
		opts = append(opts, block.WithProperty(p.Name, p.Values...))
	}

	def := shape.Full()
	if b.Shape != nil {
		def = shapes[*b.Shape]
	}
	if len(b.States) == 0 {
		return append(opts, block.WithShape(def))
	}

	type rule struct {
		when  map[string]string
		shape shape.Shape
	}
	rules := make([]rule, 0, len(b.States))
	for _, st := range b.States {
		rules = append(rules, rule{when: st.When, shape: shapes[st.Shape]})
	}
	return append(opts, block.WithShapeFunc(func(props block.Properties) shape.Shape {
	next:
		for _, r := range rules {
			for name, want := range r.when {
				if v, _ := props.Value(name); v != want {
					continue next
				}
			}
			return r.shape
		}
		return def
	}))
}

// decodeShape decodes boxes encoded as [originX, originY, originZ, sizeX, sizeY, sizeZ].
func decodeShape(encoded [][6]float32) shape.Shape {
	if len(encoded) == 0 {
		return shape.Empty()
	}
	s := make(shape.Shape, 0, len(encoded))
	for _, dat := range encoded {
		s = append(s, shape.Centred(mgl32.Vec3{dat[0], dat[1], dat[2]}, mgl32.Vec3{dat[3], dat[4], dat[5]}))
	}
	return s
}

// Type returns the block type with the name passed.
func (c *Catalog) Type(name string) (*block.Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.types[name]
	return t, ok
}

// MustType is like Type but panics if the type does not exist.
func (c *Catalog) MustType(name string) *block.Type {
	t, ok := c.Type(name)
	assert.IsTrue(ok, "catalog has no block %s", name)
	return t
}

// State returns the state of the block with the name and property values passed. Missing properties take
// their default value.
func (c *Catalog) State(name string, props map[string]string) (block.State, error) {
	t, ok := c.Type(name)
	if !ok {
		return block.State{}, fmt.Errorf("catalog has no block %s", name)
	}
	return t.State(props)
}

// Types returns every type in the catalog, in the order they were defined.
func (c *Catalog) Types() []*block.Type {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.order)
}

// Register registers the capabilities named in the catalog with reg.
func (c *Catalog) Register(reg *capability.Registry) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, t := range c.order {
		name, ok := c.caps[t]
		if !ok {
			continue
		}
		f, err := capabilityFunc(name)
		if err != nil {
			return fmt.Errorf("block %s: %w", t.Name(), err)
		}
		if err := reg.Register(t, f); err != nil {
			return fmt.Errorf("register capability of %s: %w", t.Name(), err)
		}
	}
	return nil
}

// capabilityFunc returns the built-in capability with the name passed.
func capabilityFunc(name string) (capability.Func, error) {
	switch name {
	case "same_type":
		return capability.SameType(capability.Hidden), nil
	case "same_state":
		return capability.SameState(capability.Hidden), nil
	case "always_hidden":
		return capability.Always(capability.Hidden), nil
	case "always_visible":
		return capability.Always(capability.Visible), nil
	}
	return nil, fmt.Errorf("unknown capability %q", name)
}
