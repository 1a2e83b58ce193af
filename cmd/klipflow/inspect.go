package main

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/urfave/cli/v3"

	"github.com/klipworks/klipflow/internal/blueprint"
)

// NewInspectCommand parses a blueprint and prints its structure.
func NewInspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Aliases:   []string{"i"},
		Usage:     "Parse a blueprint and print its structure",
		ArgsUsage: "<blueprint file or inline text>",
		Action: func(ctx context.Context, command *cli.Command) error {
			source := command.Args().First()
			if source == "" {
				return fmt.Errorf("blueprint file or inline text required")
			}

			doc, err := blueprint.LoadDocument(source)
			if err != nil {
				return err
			}

			out, err := sonic.MarshalIndent(summarize(doc), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func summarize(doc *blueprint.Document) map[string]any {
	units := make([]map[string]any, 0, len(doc.Units))
	for _, u := range doc.Units {
		unit := map[string]any{"name": u.Name}
		if u.Role != "" {
			unit["role"] = u.Role
		}
		if u.Goal != "" {
			unit["goal"] = u.Goal
		}
		if u.IsComposite() {
			unit["variant"] = string(u.Variant)
			unit["sub_document"] = u.SubDocumentPath
		}
		units = append(units, unit)
	}

	phases := make([]map[string]any, 0, len(doc.Phases))
	for _, p := range doc.Phases {
		steps := make([]map[string]any, 0, len(p.Steps))
		for _, s := range p.Steps {
			step := map[string]any{"name": s.Name}
			if s.UnitRef != "" {
				step["agent"] = s.UnitRef
			}
			if s.CapabilityRef != "" {
				step["tool"] = s.CapabilityRef
			}
			if len(s.Inputs.Keys) > 0 {
				step["inputs"] = s.Inputs.Keys
			}
			if len(s.Inputs.Bindings) > 0 {
				step["inputs"] = s.Inputs.Bindings
			}
			if s.OutputKey != "" {
				step["outputs"] = s.OutputKey
			}
			steps = append(steps, step)
		}
		phase := map[string]any{"name": p.Name, "steps": steps}
		if p.Description != "" {
			phase["description"] = p.Description
		}
		phases = append(phases, phase)
	}

	return map[string]any{
		"units":  units,
		"phases": phases,
	}
}
