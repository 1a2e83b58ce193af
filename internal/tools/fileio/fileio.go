// Package fileio implements the file-read and file-write capabilities. Both
// resolve paths inside a caller-supplied root and refuse to escape it; the
// scope is the caller's sandbox, not the engine's.
package fileio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klipworks/klipflow/internal/capability"
)

// Capability names.
const (
	ReadName  = "file-read"
	WriteName = "file-write"
)

// Reader reads files under a root directory.
type Reader struct {
	root string
}

// Writer writes files under a root directory.
type Writer struct {
	root string
}

// NewReader creates the file-read capability scoped to root.
func NewReader(root string) *Reader { return &Reader{root: root} }

// NewWriter creates the file-write capability scoped to root.
func NewWriter(root string) *Writer { return &Writer{root: root} }

// Name implements capability.Capability.
func (r *Reader) Name() string { return ReadName }

// Name implements capability.Capability.
func (w *Writer) Name() string { return WriteName }

// Run reads the "path" argument and returns the file's contents.
func (r *Reader) Run(input map[string]any) (any, error) {
	path, err := resolve(r.root, input)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fileio: read %s: %w", path, err)
	}
	return string(data), nil
}

// Run writes the "content" argument to the "path" argument, creating parent
// directories, and returns the written path.
func (w *Writer) Run(input map[string]any) (any, error) {
	path, err := resolve(w.root, input)
	if err != nil {
		return nil, err
	}
	content := capability.Text(input["content"])

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("fileio: mkdir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("fileio: write %s: %w", path, err)
	}
	return path, nil
}

func resolve(root string, input map[string]any) (string, error) {
	raw, ok := capability.First(input, "path", "file")
	if !ok {
		return "", fmt.Errorf("fileio: no path given")
	}
	rel := capability.Text(raw)
	if rel == "" {
		return "", fmt.Errorf("fileio: no path given")
	}

	if root == "" {
		return filepath.Clean(rel), nil
	}
	joined := filepath.Clean(filepath.Join(root, rel))
	rootClean := filepath.Clean(root)
	if joined != rootClean && !strings.HasPrefix(joined, rootClean+string(filepath.Separator)) {
		return "", fmt.Errorf("fileio: path %q escapes root", rel)
	}
	return joined, nil
}
