package capability

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound indicates a lookup for a capability name with no registration.
var ErrNotFound = errors.New("capability not found")

// Registry maps capability names to implementations. Registering a duplicate
// name overwrites the previous entry. A Registry belongs to exactly one
// engine instance and is not safe for concurrent use.
type Registry struct {
	caps map[string]Capability
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{caps: make(map[string]Capability)}
}

// Register adds cap under its own name. Last registration wins.
func (r *Registry) Register(cap Capability) {
	r.caps[cap.Name()] = cap
}

// Get returns the capability registered under name, or an error wrapping
// ErrNotFound.
func (r *Registry) Get(name string) (Capability, error) {
	cap, ok := r.caps[name]
	if !ok {
		return nil, fmt.Errorf("capability %q: %w", name, ErrNotFound)
	}
	return cap, nil
}

// Names returns all registered capability names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.caps))
	for name := range r.caps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered capabilities.
func (r *Registry) Len() int { return len(r.caps) }
