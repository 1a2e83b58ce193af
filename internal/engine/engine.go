package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/klipworks/klipflow/internal/blueprint"
	"github.com/klipworks/klipflow/internal/capability"
	"github.com/klipworks/klipflow/internal/logging"
	"github.com/klipworks/klipflow/internal/tools/classify"
	"github.com/klipworks/klipflow/internal/tools/score"
)

// DefaultMaxDepth bounds composite-unit nesting when no limit is configured.
const DefaultMaxDepth = 8

// StepRecord describes one dispatched or skipped step.
type StepRecord struct {
	Phase      string `json:"phase"`
	Step       string `json:"step"`
	Unit       string `json:"unit"`
	Capability string `json:"capability,omitempty"`
	Skipped    bool   `json:"skipped,omitempty"`
	WroteKey   string `json:"wrote_key,omitempty"`
}

// TraceEntry renders the record in the shape trace-reviewing capabilities
// consume.
func (r StepRecord) TraceEntry() map[string]any {
	status := "ok"
	if r.Skipped {
		status = "skipped"
	}
	return map[string]any{
		"action": r.Step,
		"unit":   r.Unit,
		"phase":  r.Phase,
		"status": status,
	}
}

// Observer receives a StepRecord after each step, including steps of nested
// composite sub-runs. It must not mutate workflow state.
type Observer func(StepRecord)

// Engine drives blueprint execution. Construct with New, wire a document
// with Attach, run with Execute. Not safe for concurrent Execute calls.
type Engine struct {
	log      *logging.Logger
	caps     *capability.Registry
	units    *Registry
	doc      *blueprint.Document
	observer Observer
	maxDepth int
	depth    int
	opts     []Option
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a logger. The engine is silent without one.
func WithLogger(log *logging.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithCapabilities registers additional capabilities on top of the built-in
// set. A capability sharing a built-in's name replaces it.
func WithCapabilities(caps ...capability.Capability) Option {
	return func(e *Engine) {
		for _, c := range caps {
			e.caps.Register(c)
		}
	}
}

// WithMaxDepth bounds composite-unit nesting.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) { e.maxDepth = depth }
}

// WithObserver attaches a step observer.
func WithObserver(fn Observer) Option {
	return func(e *Engine) { e.observer = fn }
}

// New creates an engine with the content-classification and
// workflow-scoring capabilities registered, then applies opts. Each engine
// owns its registries outright; nothing is shared between instances.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:      logging.NewNop(),
		caps:     capability.NewRegistry(),
		units:    NewRegistry(),
		maxDepth: DefaultMaxDepth,
		opts:     opts,
	}
	e.caps.Register(classify.New())
	e.caps.Register(score.New())
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// newChild builds the private engine for a composite unit: same
// configuration, fresh registries, one level deeper.
func (e *Engine) newChild() *Engine {
	child := New(e.opts...)
	child.depth = e.depth + 1
	return child
}

// Capabilities exposes the engine's capability registry for inspection.
func (e *Engine) Capabilities() *capability.Registry { return e.caps }

// Attach builds the unit registry from doc, replacing any previously
// attached document. Units sharing a name shadow earlier declarations.
func (e *Engine) Attach(doc *blueprint.Document) {
	e.doc = doc
	e.units = NewRegistry()
	for _, spec := range doc.Units {
		if spec.IsComposite() {
			e.units.Register(newComposite(spec, e))
		} else {
			e.units.Register(newSimple(spec))
		}
	}
}

// Execute runs the attached document against a deep copy of initial and
// returns the final workflow state. Phases run in document order, steps in
// phase order; a step's output is committed before the next step starts.
// On any step error the partial state is discarded and only the error
// returns.
func (e *Engine) Execute(initial map[string]any) (State, error) {
	if e.doc == nil {
		return nil, ErrNoDocument
	}

	state := State(initial).Clone()

	for _, phase := range e.doc.Phases {
		e.log.Debug("phase start",
			zap.String("phase", phase.Name),
			zap.Int("steps", len(phase.Steps)),
			zap.Int("depth", e.depth))

		for _, step := range phase.Steps {
			record := StepRecord{
				Phase:      phase.Name,
				Step:       step.Name,
				Unit:       step.UnitRef,
				Capability: step.CapabilityRef,
			}

			unit, err := e.units.Get(step.UnitRef)
			if err != nil {
				record.Skipped = true
				e.observe(record)
				e.log.Debug("step skipped",
					zap.String("step", step.Name),
					zap.String("unit", step.UnitRef))
				continue
			}

			var tool capability.Capability
			if step.CapabilityRef != "" {
				if c, err := e.caps.Get(step.CapabilityRef); err == nil {
					tool = c
				} else {
					e.log.Debug("no capability bound",
						zap.String("step", step.Name),
						zap.String("capability", step.CapabilityRef))
				}
			}

			context := step.Inputs.Resolve(state)
			result, err := unit.Execute(context, tool)
			if err != nil {
				return nil, fmt.Errorf("phase %q step %q: %w", phase.Name, step.Name, err)
			}

			if step.OutputKey != "" {
				state[step.OutputKey] = result
				record.WroteKey = step.OutputKey
			}
			e.observe(record)
		}
	}

	return state, nil
}

func (e *Engine) observe(record StepRecord) {
	if e.observer != nil {
		e.observer(record)
	}
}
