package engine

import (
	"fmt"

	"github.com/klipworks/klipflow/internal/blueprint"
	"github.com/klipworks/klipflow/internal/capability"
)

// Unit is a named processing participant in a workflow. Execute receives
// the step's resolved input context and the capability bound to the step,
// which may be nil.
type Unit interface {
	Name() string
	Execute(context map[string]any, tool capability.Capability) (any, error)
}

// simpleUnit dispatches straight to its bound capability.
type simpleUnit struct {
	spec blueprint.UnitSpec
}

func newSimple(spec blueprint.UnitSpec) *simpleUnit {
	return &simpleUnit{spec: spec}
}

func (u *simpleUnit) Name() string { return u.spec.Name }

// Execute is a pure pass-through: with a capability bound the result is
// whatever the capability returns, untransformed. With none bound it
// returns a fixed placeholder rather than fabricating output or failing.
func (u *simpleUnit) Execute(context map[string]any, tool capability.Capability) (any, error) {
	if tool == nil {
		return fmt.Sprintf("%s completed (no capability bound)", u.spec.Name), nil
	}
	result, err := tool.Run(context)
	if err != nil {
		return nil, &CapabilityError{Capability: tool.Name(), Err: err}
	}
	return result, nil
}
