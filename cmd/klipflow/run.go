package main

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/urfave/cli/v3"

	"github.com/klipworks/klipflow/internal/blueprint"
	"github.com/klipworks/klipflow/internal/engine"
	"github.com/klipworks/klipflow/internal/service"
)

// NewRunCommand executes a blueprint and prints the final state.
func NewRunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Aliases:   []string{"r"},
		Usage:     "Execute a blueprint and print the final state",
		ArgsUsage: "<blueprint file or inline text>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "state",
				Aliases: []string{"s"},
				Usage:   "Initial state file (.json, .yaml, or .toml)",
			},
			&cli.StringSliceFlag{
				Name:  "set",
				Usage: "Set a state key (key=value, repeatable, overrides --state)",
			},
			&cli.IntFlag{
				Name:  "max-depth",
				Usage: "Composite unit recursion limit",
				Value: engine.DefaultMaxDepth,
			},
			&cli.StringFlag{
				Name:  "root",
				Usage: "Directory scope for shell and file capabilities",
				Value: ".",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "Print the step trace before the final state",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			source := command.Args().First()
			if source == "" {
				return fmt.Errorf("blueprint file or inline text required")
			}

			log, err := buildLogger(command)
			if err != nil {
				return err
			}

			doc, err := blueprint.LoadDocument(source)
			if err != nil {
				return err
			}

			initial, err := loadState(command.String("state"))
			if err != nil {
				return err
			}
			if err := applyOverrides(initial, command.StringSlice("set")); err != nil {
				return err
			}

			runner := service.NewRunner(log, nil,
				engine.WithLogger(log),
				engine.WithMaxDepth(command.Int("max-depth")),
				engine.WithCapabilities(service.DefaultCapabilities(command.String("root"))...),
			)
			result, err := runner.Run(doc, initial, nil)
			if err != nil {
				return err
			}

			if command.Bool("trace") {
				for _, rec := range result.Trace {
					line, err := sonic.Marshal(rec)
					if err != nil {
						return err
					}
					fmt.Println(string(line))
				}
			}

			out, err := sonic.MarshalIndent(result.State, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
