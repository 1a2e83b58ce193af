// Package shell implements the shell-exec capability. It carries real side
// effects: callers scope it with a working directory and a timeout at
// construction, and should only register it for workflows they trust.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/klipworks/klipflow/internal/capability"
)

// Name is the registered capability name.
const Name = "shell-exec"

// DefaultTimeout bounds a single command when the caller sets none.
const DefaultTimeout = 30 * time.Second

// Option configures the executor.
type Option func(*Executor)

// WithDir pins the working directory for every command.
func WithDir(dir string) Option {
	return func(e *Executor) { e.dir = dir }
}

// WithTimeout bounds each command's runtime.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) { e.timeout = d }
}

// Executor runs commands through /bin/sh -c.
type Executor struct {
	dir     string
	timeout time.Duration
}

// New creates the shell capability with the given scope.
func New(opts ...Option) *Executor {
	e := &Executor{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements capability.Capability.
func (e *Executor) Name() string { return Name }

// Run executes the "command" argument and returns trimmed stdout. A non-zero
// exit or a timeout is an error carrying the command's stderr.
func (e *Executor) Run(input map[string]any) (any, error) {
	raw, ok := capability.First(input, "command", "cmd")
	if !ok {
		raw, _ = capability.Sole(input)
	}
	command := capability.Text(raw)
	if command == "" {
		return nil, fmt.Errorf("shell: no command given")
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)
	cmd.Dir = e.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("shell: command timed out after %s", e.timeout)
		}
		return nil, fmt.Errorf("shell: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimSpace(stdout.String()), nil
}
