package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klipworks/klipflow/internal/logging"
)

func main() {
	cmd := &cli.Command{
		Name:                  "klipflow",
		Usage:                 "Run and manage clipboard workflow blueprints",
		Version:               "0.3.0",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			NewRunCommand(),
			NewInspectCommand(),
			NewArchiveCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildLogger creates a stderr logger so stdout stays machine readable.
func buildLogger(command *cli.Command) (*logging.Logger, error) {
	return logging.New(logging.Config{
		Level:       command.String("log-level"),
		OutputPaths: []string{"stderr"},
	})
}
