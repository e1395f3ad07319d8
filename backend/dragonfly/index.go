package dragonfly

import (
	"fmt"
	"slices"
	"strings"

	"github.com/df-mc/dragonfly/server/world"
	"github.com/oomph-ac/culling/block"
	"github.com/zeebo/xxh3"
)

// Index maps dragonfly blocks to block states by their encoded name and properties. An Index is filled once
// at startup and read concurrently afterwards.
type Index struct {
	states map[uint64]block.State
}

// NewIndex returns an index holding every state of the types passed.
func NewIndex(types ...*block.Type) *Index {
	idx := &Index{states: make(map[uint64]block.State)}
	for _, t := range types {
		idx.Add(t)
	}
	return idx
}

// Add adds every state of t to the index. It must not be called while the index is in use.
func (idx *Index) Add(t *block.Type) {
	for _, st := range t.States() {
		idx.states[st.Hash()] = st
	}
}

// Len returns the amount of states in the index.
func (idx *Index) Len() int {
	return len(idx.states)
}

// State returns the state matching the dragonfly block passed.
func (idx *Index) State(b world.Block) (block.State, bool) {
	name, props := b.EncodeBlock()
	encoded := encode(name, props)
	st, ok := idx.states[xxh3.HashString(encoded)]
	if !ok || st.String() != encoded {
		return block.State{}, false
	}
	return st, true
}

// encode encodes a name and properties the same way block.State.String does.
func encode(name string, props map[string]any) string {
	if len(props) == 0 {
		return name
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('[')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%v", k, props[k])
	}
	b.WriteByte(']')
	return b.String()
}
