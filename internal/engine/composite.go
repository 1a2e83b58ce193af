package engine

import (
	"fmt"

	"github.com/klipworks/klipflow/internal/blueprint"
	"github.com/klipworks/klipflow/internal/capability"
)

// compositeUnit wraps a private engine running a sub-document. The
// sub-document loads lazily on first Execute and the private engine is
// reused across calls; its registries are fully independent of the
// parent's.
type compositeUnit struct {
	spec   blueprint.UnitSpec
	parent *Engine
	child  *Engine
}

func newComposite(spec blueprint.UnitSpec, parent *Engine) *compositeUnit {
	return &compositeUnit{spec: spec, parent: parent}
}

func (u *compositeUnit) Name() string { return u.spec.Name }

// Execute runs the sub-workflow against a deep copy of context and returns
// a structured value carrying the unit's name and the sub-run's full final
// state. The bound capability, if any, is ignored; a composite's work is
// its sub-document. Sub-run failures, missing sub-documents, and depth
// breaches abort the enclosing run.
func (u *compositeUnit) Execute(context map[string]any, _ capability.Capability) (any, error) {
	if u.parent.depth+1 > u.parent.maxDepth {
		return nil, fmt.Errorf("composite unit %q at depth %d: %w",
			u.spec.Name, u.parent.depth+1, ErrRecursionLimit)
	}

	if u.child == nil {
		child := u.parent.newChild()
		if u.spec.SubDocumentPath != "" {
			doc, err := blueprint.LoadFile(u.spec.SubDocumentPath)
			if err != nil {
				return nil, fmt.Errorf("composite unit %q: load sub-document %s: %w",
					u.spec.Name, u.spec.SubDocumentPath, err)
			}
			child.Attach(doc)
		}
		u.child = child
	}

	// Execute clones its initial state, so the sub-run can never alias the
	// parent's values through context.
	final, err := u.child.Execute(context)
	if err != nil {
		return nil, fmt.Errorf("composite unit %q: %w", u.spec.Name, err)
	}

	return map[string]any{
		"unit":  u.spec.Name,
		"state": map[string]any(final),
	}, nil
}
