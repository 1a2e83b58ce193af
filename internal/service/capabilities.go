package service

import (
	"github.com/klipworks/klipflow/internal/capability"
	"github.com/klipworks/klipflow/internal/tools/critic"
	"github.com/klipworks/klipflow/internal/tools/fileio"
	"github.com/klipworks/klipflow/internal/tools/rhythm"
	"github.com/klipworks/klipflow/internal/tools/shell"
)

// DefaultCapabilities assembles the side-effect capabilities scoped to
// workRoot: shell execution, file IO, rhythm prediction, and trace critique.
// Classification and scoring register automatically with every engine, so
// they are not listed here.
func DefaultCapabilities(workRoot string) []capability.Capability {
	return []capability.Capability{
		shell.New(shell.WithDir(workRoot)),
		fileio.NewReader(workRoot),
		fileio.NewWriter(workRoot),
		rhythm.New(),
		critic.New(),
	}
}
