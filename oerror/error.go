package oerror

import (
	"errors"
	"fmt"
)

var (
	// ErrRegistryClosed is returned when a capability is registered after the registry was closed.
	ErrRegistryClosed = errors.New("capability registry is closed")
	// ErrDuplicateCapability is returned when a block type already has a capability and the registry
	// rejects duplicates.
	ErrDuplicateCapability = errors.New("block type already has a culling capability")
	// ErrOptionLocked is returned when an option that was locked by an incompatible mod is changed.
	ErrOptionLocked = errors.New("option is locked")
)

type CullingError struct {
	Err string
}

// New formats a new CullingError.
func New(format string, args ...any) *CullingError {
	return &CullingError{Err: fmt.Sprintf(format, args...)}
}

func (e *CullingError) Error() string {
	return e.Err
}
