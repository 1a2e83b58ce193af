package blueprint

// Variant distinguishes the two processing-unit kinds a blueprint can
// declare.
type Variant string

const (
	// Simple units dispatch straight to a bound capability.
	Simple Variant = "simple"
	// Composite units wrap a nested engine running a sub-document.
	Composite Variant = "composite"
)

// Document is a parsed blueprint: the agentic plane's unit declarations and
// the structural plane's ordered phases. Immutable once loaded; owned by the
// engine instance it is attached to.
type Document struct {
	Units  []UnitSpec  `validate:"dive"`
	Phases []PhaseSpec `validate:"dive"`
}

// UnitSpec declares a named processing unit.
type UnitSpec struct {
	Name            string `validate:"required"`
	Role            string
	Goal            string
	PromptTemplate  string
	Variant         Variant
	SubDocumentPath string
}

// IsComposite reports whether the unit wraps a nested workflow.
func (u UnitSpec) IsComposite() bool { return u.Variant == Composite }

// PhaseSpec is one ordered phase of the structural plane.
type PhaseSpec struct {
	Name        string
	Description string
	Steps       []StepSpec
}

// StepSpec is a single dispatch instruction inside a phase.
type StepSpec struct {
	Name          string
	UnitRef       string
	CapabilityRef string
	Inputs        InputSpec
	OutputKey     string
}

// InputSpec describes how a step's input context is resolved from workflow
// state. Exactly one of Keys (list form, identity mapping) or Bindings (map
// form, local name to state key) is populated; both empty means the step
// takes an empty context.
type InputSpec struct {
	Keys     []string
	Bindings map[string]string
}

// IsZero reports whether the step declares no inputs.
func (in InputSpec) IsZero() bool {
	return len(in.Keys) == 0 && len(in.Bindings) == 0
}

// Resolve builds the step's input context from state. Listed keys map
// through unchanged; bindings rename state keys to local argument names.
// Keys absent from state resolve to an explicit nil entry.
func (in InputSpec) Resolve(state map[string]any) map[string]any {
	context := make(map[string]any, len(in.Keys)+len(in.Bindings))
	for _, key := range in.Keys {
		context[key] = state[key]
	}
	for arg, stateKey := range in.Bindings {
		context[arg] = state[stateKey]
	}
	return context
}
