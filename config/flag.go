package config

import "sync/atomic"

// Flag is a boolean shared between the configuration and the meshing goroutines. Reads and writes are atomic;
// a goroutine may briefly keep seeing the old value after a change.
type Flag struct {
	v atomic.Bool
}

// NewFlag returns a flag with the initial value passed.
func NewFlag(enabled bool) *Flag {
	f := &Flag{}
	f.v.Store(enabled)
	return f
}

// Enabled returns the current value of the flag.
func (f *Flag) Enabled() bool {
	return f.v.Load()
}

// Set changes the value of the flag.
func (f *Flag) Set(enabled bool) {
	f.v.Store(enabled)
}

// Toggle flips the flag and returns the new value.
func (f *Flag) Toggle() bool {
	for {
		old := f.v.Load()
		if f.v.CompareAndSwap(old, !old) {
			return !old
		}
	}
}
