package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDocument means Execute was called before Attach.
	ErrNoDocument = errors.New("engine: no document attached")

	// ErrNotFound means a unit name has no registration. A step hitting it
	// is skipped, never failed.
	ErrNotFound = errors.New("unit not found")

	// ErrRecursionLimit means a composite-unit chain exceeded the
	// configured depth. Fatal to the enclosing Execute.
	ErrRecursionLimit = errors.New("engine: recursion limit exceeded")
)

// CapabilityError wraps a failure surfaced from a capability's Run. It
// aborts the enclosing Execute; the engine never retries.
type CapabilityError struct {
	Capability string
	Err        error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("capability %q: %v", e.Capability, e.Err)
}

func (e *CapabilityError) Unwrap() error { return e.Err }
