package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/urfave/cli/v3"

	"github.com/klipworks/klipflow/internal/generation"
	"github.com/klipworks/klipflow/internal/shared/utils"
)

// NewArchiveCommand manages the on-disk blueprint archive.
func NewArchiveCommand() *cli.Command {
	return &cli.Command{
		Name:    "archive",
		Aliases: []string{"a"},
		Usage:   "Manage the local blueprint archive",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Usage:   "Archive directory",
				Value:   "generations",
				Sources: cli.EnvVars("GENERATIONS_DIR"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List archived blueprints and their generations",
				Action: archiveList,
			},
			{
				Name:      "show",
				Usage:     "Print an archived blueprint generation (latest by default)",
				ArgsUsage: "<name> [generation]",
				Action:    archiveShow,
			},
			{
				Name:      "put",
				Usage:     "Register a blueprint, or evolve it when already tracked",
				ArgsUsage: "<name> <file>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "description",
						Usage: "Description recorded on first registration",
					},
				},
				Action: archivePut,
			},
			{
				Name:      "compare",
				Usage:     "Compare two generations of a blueprint",
				ArgsUsage: "<name> <gen1> <gen2>",
				Action:    archiveCompare,
			},
		},
	}
}

func openArchive(command *cli.Command) (*generation.Archive, error) {
	log, err := buildLogger(command)
	if err != nil {
		return nil, err
	}

	dir := command.String("dir")
	tracker, err := generation.NewTracker(filepath.Join(dir, "state"), log)
	if err != nil {
		return nil, err
	}
	return generation.NewArchive(tracker, filepath.Join(dir, "blueprints"), log)
}

func archiveList(ctx context.Context, command *cli.Command) error {
	archive, err := openArchive(command)
	if err != nil {
		return err
	}

	tracker := archive.Tracker()
	items := make([]map[string]any, 0)
	for _, name := range tracker.Components() {
		item := map[string]any{"name": name}
		if info, ok := tracker.ComponentInfo(name); ok {
			item["current_generation"] = info.CurrentGeneration
			if info.Description != "" {
				item["description"] = info.Description
			}
		}
		if gens, err := archive.Generations(name); err == nil {
			item["stored_generations"] = gens
		}
		items = append(items, item)
	}

	out, err := sonic.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func archiveShow(ctx context.Context, command *cli.Command) error {
	name := command.Args().First()
	if err := utils.ValidateID(name, "name", true); err != nil {
		return err
	}

	archive, err := openArchive(command)
	if err != nil {
		return err
	}

	var content string
	if arg := command.Args().Get(1); arg != "" {
		gen, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid generation %q", arg)
		}
		content, err = archive.Version(name, gen)
		if err != nil {
			return err
		}
	} else {
		content, _, err = archive.Latest(name)
		if err != nil {
			return err
		}
	}

	fmt.Print(content)
	return nil
}

func archivePut(ctx context.Context, command *cli.Command) error {
	name := command.Args().First()
	if err := utils.ValidateID(name, "name", true); err != nil {
		return err
	}
	path := command.Args().Get(1)
	if path == "" {
		return fmt.Errorf("blueprint file required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(data) > utils.MaxBlueprintSize {
		return fmt.Errorf("blueprint exceeds %d bytes", utils.MaxBlueprintSize)
	}

	archive, err := openArchive(command)
	if err != nil {
		return err
	}

	if _, tracked := archive.Tracker().CurrentGeneration(name); tracked {
		changes := map[string]any{"source": "cli", "file": filepath.Base(path)}
		if err := archive.Evolve(name, string(data), changes, nil); err != nil {
			return err
		}
	} else if err := archive.Register(name, string(data), 1, command.String("description")); err != nil {
		return err
	}

	_, gen, err := archive.Latest(name)
	if err != nil {
		return err
	}
	fmt.Printf("%s generation %d\n", name, gen)
	return nil
}

func archiveCompare(ctx context.Context, command *cli.Command) error {
	name := command.Args().First()
	if err := utils.ValidateID(name, "name", true); err != nil {
		return err
	}

	gen1, err := strconv.Atoi(command.Args().Get(1))
	if err != nil {
		return fmt.Errorf("invalid generation %q", command.Args().Get(1))
	}
	gen2, err := strconv.Atoi(command.Args().Get(2))
	if err != nil {
		return fmt.Errorf("invalid generation %q", command.Args().Get(2))
	}

	archive, err := openArchive(command)
	if err != nil {
		return err
	}

	cmp, err := archive.Compare(name, gen1, gen2)
	if err != nil {
		return err
	}

	out, err := sonic.MarshalIndent(cmp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
