package capability

import (
	"fmt"
	"sync/atomic"

	"github.com/oomph-ac/culling/assert"
	"github.com/oomph-ac/culling/block"
	"github.com/oomph-ac/culling/oerror"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// DuplicatePolicy decides what happens when a second capability is registered for the same block type.
type DuplicatePolicy uint8

const (
	// RejectDuplicates makes Register return oerror.ErrDuplicateCapability. The first registration stays.
	RejectDuplicates DuplicatePolicy = iota
	// OverwriteDuplicates makes the last registration win.
	OverwriteDuplicates
)

func (p DuplicatePolicy) String() string {
	if p == OverwriteDuplicates {
		return "overwrite"
	}
	return "reject"
}

// ParseDuplicatePolicy parses "reject" or "overwrite". An empty string is the reject policy.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch s {
	case "", "reject":
		return RejectDuplicates, nil
	case "overwrite":
		return OverwriteDuplicates, nil
	}
	return 0, fmt.Errorf("unknown duplicate policy %q", s)
}

// Registry maps block types to their culling capability. It starts open, accepting registrations, and is
// closed exactly once before meshing starts. After closing, lookups index a table that is never written to
// again, so they need no locking.
type Registry struct {
	policy DuplicatePolicy
	log    *logrus.Logger

	mu      deadlock.Mutex
	pending map[*block.Type]Func

	closed atomic.Bool
	table  []Func
}

// NewRegistry returns an open registry using the duplicate policy passed. If log is nil, the standard logrus
// logger is used.
func NewRegistry(policy DuplicatePolicy, log *logrus.Logger) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Registry{
		policy:  policy,
		log:     log,
		pending: make(map[*block.Type]Func),
	}
}

// Policy returns the duplicate policy of the registry.
func (r *Registry) Policy() DuplicatePolicy {
	return r.policy
}

// Register sets the capability of the block type passed. It fails with oerror.ErrRegistryClosed once the
// registry is closed, and with oerror.ErrDuplicateCapability if the type already has a capability and the
// registry rejects duplicates. A failed registration leaves the registry unchanged.
func (r *Registry) Register(t *block.Type, f Func) error {
	if t == nil || f == nil {
		return oerror.New("register capability: block type and func must be non-nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed.Load() {
		return fmt.Errorf("register capability for %s: %w", t.Name(), oerror.ErrRegistryClosed)
	}
	if _, ok := r.pending[t]; ok {
		if r.policy == RejectDuplicates {
			return fmt.Errorf("register capability for %s: %w", t.Name(), oerror.ErrDuplicateCapability)
		}
		r.log.Warnf("overwriting culling capability of %s", t.Name())
	}
	r.pending[t] = f
	r.log.Debugf("registered culling capability for %s", t.Name())
	return nil
}

// MustRegister calls Register and panics if it fails. Extensions should use it during startup, where a
// failed registration means the extension is broken.
func (r *Registry) MustRegister(t *block.Type, f Func) {
	assert.NoError(r.Register(t, f), "culling capability registration")
}

// Close ends the registration phase. It may only be called once.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed.Load() {
		return fmt.Errorf("close: %w", oerror.ErrRegistryClosed)
	}

	var size uint32
	for t := range r.pending {
		size = max(size, t.ID()+1)
	}
	table := make([]Func, size)
	for t, f := range r.pending {
		table[t.ID()] = f
	}
	count := len(r.pending)
	r.table = table
	r.pending = nil
	// The table must be fully written before closed is observed by readers.
	r.closed.Store(true)

	r.log.Infof("culling capability registry closed with %d capabilities", count)
	return nil
}

// MustClose calls Close and panics if it fails.
func (r *Registry) MustClose() {
	assert.NoError(r.Close(), "close culling capability registry")
}

// Closed returns true once Close has been called.
func (r *Registry) Closed() bool {
	return r.closed.Load()
}

// Lookup returns the capability of the block type passed, if any.
func (r *Registry) Lookup(t *block.Type) (Func, bool) {
	if t == nil {
		return nil, false
	}
	if r.closed.Load() {
		return r.lookupClosed(t)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed.Load() {
		// Closed while waiting for the lock: pending is gone, so retry through the table.
		return r.lookupClosed(t)
	}
	f, ok := r.pending[t]
	return f, ok
}

func (r *Registry) lookupClosed(t *block.Type) (Func, bool) {
	if id := t.ID(); id < uint32(len(r.table)) {
		f := r.table[id]
		return f, f != nil
	}
	return nil, false
}
