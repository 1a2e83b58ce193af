package engine

import "fmt"

// Registry maps unit names to runtime units. Registering a duplicate name
// overwrites the previous entry; a document that declares the same unit
// twice ends up with the later declaration. Owned by exactly one engine and
// not safe for concurrent use.
type Registry struct {
	units map[string]Unit
}

// NewRegistry creates an empty unit registry.
func NewRegistry() *Registry {
	return &Registry{units: make(map[string]Unit)}
}

// Register adds unit under its own name. Last registration wins.
func (r *Registry) Register(unit Unit) {
	r.units[unit.Name()] = unit
}

// Get returns the unit registered under name, or an error wrapping
// ErrNotFound.
func (r *Registry) Get(name string) (Unit, error) {
	unit, ok := r.units[name]
	if !ok {
		return nil, fmt.Errorf("unit %q: %w", name, ErrNotFound)
	}
	return unit, nil
}

// Len returns the number of registered units.
func (r *Registry) Len() int { return len(r.units) }
