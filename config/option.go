package config

import (
	"fmt"
	"slices"
	"sync"

	"github.com/oomph-ac/culling/oerror"
)

// OptionState is the state of an Option. An option starts Editable and moves to LockedIncompatible at most
// once; it never becomes editable again.
type OptionState uint8

const (
	Editable OptionState = iota
	LockedIncompatible
)

func (s OptionState) String() string {
	if s == LockedIncompatible {
		return "locked"
	}
	return "editable"
}

// Binding connects an option to the value it controls.
type Binding[T any] struct {
	Get func() T
	Set func(T)
}

// FlagBinding binds a boolean option to a Flag, so applying the option toggles the flag live.
func FlagBinding(f *Flag) Binding[bool] {
	return Binding[bool]{Get: f.Enabled, Set: f.Set}
}

// Option is a user-editable setting. Changes made with Set are pending until Apply writes them through the
// binding. Once locked because of an incompatible mod, every mutation fails with oerror.ErrOptionLocked.
type Option[T comparable] struct {
	mu sync.Mutex

	key     string
	binding Binding[T]
	def     T

	value    T
	modified T

	available bool
	state     OptionState
	reason    string
	tooltips  []string

	onEnabledChanged func(enabled bool)
}

// NewOption creates an editable option reading its initial value from the binding.
func NewOption[T comparable](key string, def T, binding Binding[T]) *Option[T] {
	o := &Option[T]{key: key, binding: binding, def: def, available: true}
	o.value = binding.Get()
	o.modified = o.value
	return o
}

// Key returns the key of the option.
func (o *Option[T]) Key() string {
	return o.key
}

// Default returns the default value of the option.
func (o *Option[T]) Default() T {
	return o.def
}

// Value returns the pending value of the option.
func (o *Option[T]) Value() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.modified
}

// State returns whether the option is editable or locked.
func (o *Option[T]) State() OptionState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Locked returns true if the option was locked.
func (o *Option[T]) Locked() bool {
	return o.State() == LockedIncompatible
}

// Reason returns why the option was locked, or an empty string.
func (o *Option[T]) Reason() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.reason
}

// Tooltips returns the tooltip lines of the option.
func (o *Option[T]) Tooltips() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.tooltips)
}

// Available returns true if the option may be changed and applied.
func (o *Option[T]) Available() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.available
}

// SetTooltip replaces the tooltip lines of the option.
func (o *Option[T]) SetTooltip(lines ...string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == LockedIncompatible {
		return o.lockedErr()
	}
	o.tooltips = slices.Clone(lines)
	return nil
}

// Set changes the pending value.
func (o *Option[T]) Set(v T) error {
	o.mu.Lock()
	if o.state == LockedIncompatible {
		o.mu.Unlock()
		return o.lockedErr()
	}
	o.modified = v
	notify, enabled := o.onEnabledChanged, o.enabledLocked()
	o.mu.Unlock()

	if notify != nil {
		notify(enabled)
	}
	return nil
}

// Reset discards the pending value and reloads it from the binding.
func (o *Option[T]) Reset() error {
	o.mu.Lock()
	if o.state == LockedIncompatible {
		o.mu.Unlock()
		return o.lockedErr()
	}
	o.value = o.binding.Get()
	o.modified = o.value
	notify, enabled := o.onEnabledChanged, o.enabledLocked()
	o.mu.Unlock()

	if notify != nil {
		notify(enabled)
	}
	return nil
}

// HasChanged returns true if the pending value differs from the applied value.
func (o *Option[T]) HasChanged() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value != o.modified
}

// Apply writes the pending value through the binding. Unavailable options keep their applied value.
func (o *Option[T]) Apply() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == LockedIncompatible {
		return o.lockedErr()
	}
	if o.available {
		o.binding.Set(o.modified)
		o.value = o.modified
	}
	return nil
}

// SetAvailable makes the option available or unavailable.
func (o *Option[T]) SetAvailable(available bool) error {
	o.mu.Lock()
	if o.state == LockedIncompatible {
		o.mu.Unlock()
		return o.lockedErr()
	}
	o.available = available
	notify := o.onEnabledChanged
	o.mu.Unlock()

	if notify != nil {
		notify(available)
	}
	return nil
}

// OnEnabledChanged sets the function called whenever the effective enabled state of the option may have
// changed. For boolean options that is the pending value while the option is available.
func (o *Option[T]) OnEnabledChanged(f func(enabled bool)) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == LockedIncompatible {
		return o.lockedErr()
	}
	o.onEnabledChanged = f
	return nil
}

// SetModIncompatibility locks the option if loaded is true. The option is forced to the value passed, which
// is written through the binding, becomes unavailable and drops its change callback. It returns true if the
// option was locked by this call.
func (o *Option[T]) SetModIncompatibility(loaded bool, modID string, forced T) bool {
	if !loaded {
		return false
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == LockedIncompatible {
		return false
	}
	o.binding.Set(forced)
	o.value, o.modified = forced, forced
	o.available = false
	o.onEnabledChanged = nil
	o.reason = fmt.Sprintf("disabled because %s is loaded", modID)
	o.tooltips = []string{o.reason}
	o.state = LockedIncompatible
	return true
}

// SetModLimited adds a tooltip line warning that a loaded mod limits the option. The option stays editable.
func (o *Option[T]) SetModLimited(loaded bool, message string) error {
	if !loaded {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == LockedIncompatible {
		return o.lockedErr()
	}
	o.tooltips = append(o.tooltips, message)
	return nil
}

// enabledLocked returns the enabled state passed to the change callback. o.mu must be held.
func (o *Option[T]) enabledLocked() bool {
	if b, ok := any(o.modified).(bool); ok {
		return o.available && b
	}
	return true
}

func (o *Option[T]) lockedErr() error {
	return fmt.Errorf("option %s (%s): %w", o.key, o.reason, oerror.ErrOptionLocked)
}
