package capability

// Capability is a named operation a workflow step can invoke. Run receives
// the step's resolved input context and returns an arbitrary result value.
// Implementations own their side effects and their determinism; the engine
// treats them as black boxes.
type Capability interface {
	Name() string
	Run(input map[string]any) (any, error)
}

// Func adapts a plain function to the Capability interface.
type Func struct {
	name string
	fn   func(input map[string]any) (any, error)
}

// NewFunc wraps fn as a capability with the given name.
func NewFunc(name string, fn func(input map[string]any) (any, error)) *Func {
	return &Func{name: name, fn: fn}
}

// Name returns the registered capability name.
func (f *Func) Name() string { return f.name }

// Run invokes the wrapped function.
func (f *Func) Run(input map[string]any) (any, error) { return f.fn(input) }
