// Package critic implements the trace-critique capability: heuristics over
// an execution trace that flag redundancy, failures, and oversized
// workflows.
package critic

import (
	"fmt"

	"github.com/klipworks/klipflow/internal/capability"
)

// Name is the registered capability name.
const Name = "trace-critique"

// Critic reviews execution traces. Pure function of its input.
type Critic struct{}

// New creates the critic capability.
func New() *Critic { return &Critic{} }

// Name implements capability.Capability.
func (c *Critic) Name() string { return Name }

// Run reads the "trace" argument (a list of step records with "action" and
// "status" fields) and returns a list of critique strings.
func (c *Critic) Run(input map[string]any) (any, error) {
	raw, ok := capability.First(input, "trace", "log")
	if !ok {
		raw, _ = capability.Sole(input)
	}
	return Review(capability.Records(raw)), nil
}

// Review critiques a trace.
func Review(trace []any) []string {
	if len(trace) == 0 {
		return []string{"Empty trace. Nothing to analyze."}
	}

	var critiques []string

	seen := make(map[string]bool)
	redundant := false
	errorCount := 0
	for _, entry := range trace {
		record, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if action, ok := capability.First(record, "action", "step"); ok {
			name := capability.Text(action)
			if seen[name] {
				redundant = true
			}
			seen[name] = true
		}
		if capability.Text(record["status"]) == "error" {
			errorCount++
		}
	}

	if redundant {
		critiques = append(critiques, "Detected redundant actions. Consider optimization.")
	}
	if errorCount > 0 {
		critiques = append(critiques, fmt.Sprintf("Found %d errors in execution.", errorCount))
	}
	if len(trace) > 10 {
		critiques = append(critiques, "Workflow is long (>10 steps). Consider decomposing into composite units.")
	}

	if len(critiques) == 0 {
		critiques = append(critiques, "Execution looks nominal.")
	}
	return critiques
}
