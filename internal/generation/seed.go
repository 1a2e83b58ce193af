package generation

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
)

// Seed walks root for .kl blueprint files and registers each one as a first
// generation, keyed by file name without extension. Already registered
// blueprints are left untouched. Returns the number of newly registered
// blueprints.
func (a *Archive) Seed(root string) (int, error) {
	var (
		mu    sync.Mutex
		paths []string
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".kl") {
			return nil
		}
		mu.Lock()
		paths = append(paths, path)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	sort.Strings(paths)

	seeded := 0
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".kl")
		if _, ok := a.tracker.CurrentGeneration(name); ok {
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			a.log.Warn("skipping unreadable blueprint",
				zap.String("path", path), zap.Error(err))
			continue
		}

		if err := a.Register(name, string(content), 1, ""); err != nil {
			return seeded, fmt.Errorf("failed to seed %s: %w", path, err)
		}
		seeded++
	}

	if seeded > 0 {
		a.log.Info("seeded blueprint archive",
			zap.String("root", root), zap.Int("blueprints", seeded))
	}
	return seeded, nil
}
