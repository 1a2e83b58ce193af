package generation

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-yaml"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/klipworks/klipflow/internal/blueprint"
	"github.com/klipworks/klipflow/internal/logging"
)

// Archive manages versioned blueprint content on disk. Each component owns
// a directory of gen_<N>.kl.gz files plus a normalized gen_<N>.yaml
// rendering for quick inspection.
type Archive struct {
	tracker *Tracker
	dir     string
	log     *logging.Logger
}

// Comparison summarizes the difference between two generations.
type Comparison struct {
	Blueprint         string `json:"blueprint"`
	Generation1       int    `json:"generation_1"`
	Generation2       int    `json:"generation_2"`
	LinesAdded        int    `json:"lines_added"`
	ContentLengthDiff int    `json:"content_length_diff"`
	Content1Length    int    `json:"content_1_length"`
	Content2Length    int    `json:"content_2_length"`
}

// NewArchive creates a blueprint archive rooted at dir.
func NewArchive(tracker *Tracker, dir string, log *logging.Logger) (*Archive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Archive{tracker: tracker, dir: dir, log: log}, nil
}

// Tracker exposes the underlying generation tracker.
func (a *Archive) Tracker() *Tracker { return a.tracker }

// Register stores a blueprint's first generation and begins tracking it.
func (a *Archive) Register(name, content string, initialGeneration int, description string) error {
	if description == "" {
		description = fmt.Sprintf("Blueprint: %s", name)
	}
	if initialGeneration < 1 {
		initialGeneration = 1
	}

	if _, err := a.tracker.Register(name, initialGeneration, description, nil); err != nil {
		return err
	}
	return a.saveVersion(name, initialGeneration, content)
}

// Evolve stores newContent as the next generation and advances the tracker.
func (a *Archive) Evolve(name, newContent string, changes, metrics map[string]any) error {
	currentGen, ok := a.tracker.CurrentGeneration(name)
	if !ok {
		return fmt.Errorf("blueprint %q: %w", name, ErrUnknownComponent)
	}

	if err := a.saveVersion(name, currentGen+1, newContent); err != nil {
		return err
	}
	return a.tracker.Advance(name, changes, metrics)
}

// Version returns the blueprint text of one generation.
func (a *Archive) Version(name string, generation int) (string, error) {
	path := a.versionPath(name, generation)

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("blueprint %q generation %d: %w", name, generation, err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return "", fmt.Errorf("blueprint %q generation %d: corrupt archive: %w", name, generation, err)
	}
	defer zr.Close()

	content, err := io.ReadAll(zr)
	if err != nil {
		return "", fmt.Errorf("blueprint %q generation %d: %w", name, generation, err)
	}
	return string(content), nil
}

// Latest returns the newest stored blueprint text and its generation.
func (a *Archive) Latest(name string) (string, int, error) {
	current, ok := a.tracker.CurrentGeneration(name)
	if !ok {
		return "", 0, fmt.Errorf("blueprint %q: %w", name, ErrUnknownComponent)
	}

	content, err := a.Version(name, current)
	if err != nil {
		return "", 0, err
	}
	return content, current, nil
}

// Generations lists the stored generation numbers of a blueprint, sorted
// ascending.
func (a *Archive) Generations(name string) ([]int, error) {
	pattern := filepath.Join(a.dir, name, "gen_*.kl.gz")
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list generations for %q: %w", name, err)
	}

	generations := make([]int, 0, len(matches))
	for _, match := range matches {
		base := filepath.Base(match)
		numeric := strings.TrimSuffix(strings.TrimPrefix(base, "gen_"), ".kl.gz")
		if n, err := strconv.Atoi(numeric); err == nil {
			generations = append(generations, n)
		}
	}
	sort.Ints(generations)
	return generations, nil
}

// Compare produces line and length statistics between two generations.
func (a *Archive) Compare(name string, gen1, gen2 int) (Comparison, error) {
	content1, err := a.Version(name, gen1)
	if err != nil {
		return Comparison{}, err
	}
	content2, err := a.Version(name, gen2)
	if err != nil {
		return Comparison{}, err
	}

	lines1 := strings.Split(content1, "\n")
	lines2 := strings.Split(content2, "\n")

	return Comparison{
		Blueprint:         name,
		Generation1:       gen1,
		Generation2:       gen2,
		LinesAdded:        len(lines2) - len(lines1),
		ContentLengthDiff: len(content2) - len(content1),
		Content1Length:    len(content1),
		Content2Length:    len(content2),
	}, nil
}

func (a *Archive) versionPath(name string, generation int) string {
	return filepath.Join(a.dir, name, fmt.Sprintf("gen_%d.kl.gz", generation))
}

// saveVersion writes one generation's blueprint text: the raw document
// gzipped, and a normalized YAML rendering alongside when the document
// parses. A blueprint that fails to parse is still archived.
func (a *Archive) saveVersion(name string, generation int, content string) error {
	componentDir := filepath.Join(a.dir, name)
	if err := os.MkdirAll(componentDir, 0o755); err != nil {
		return fmt.Errorf("failed to create blueprint directory: %w", err)
	}

	f, err := os.Create(a.versionPath(name, generation))
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(content)); err != nil {
		zw.Close()
		f.Close()
		return fmt.Errorf("failed to write archive file: %w", err)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to finish archive file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to finish archive file: %w", err)
	}

	a.writeNormalized(componentDir, name, generation, content)

	a.log.Debug("archived blueprint",
		zap.String("blueprint", name), zap.Int("generation", generation))
	return nil
}

// writeNormalized re-serializes the document body as plain YAML, stripping
// any space-format marker line first. Parse failures skip the rendering.
func (a *Archive) writeNormalized(componentDir, name string, generation int, content string) {
	_, body := blueprint.SplitMarker(content)

	var parsed any
	if err := yaml.Unmarshal([]byte(body), &parsed); err != nil {
		a.log.Debug("skipping YAML rendering",
			zap.String("blueprint", name), zap.Error(err))
		return
	}

	normalized, err := yaml.Marshal(parsed)
	if err != nil {
		return
	}

	yamlPath := filepath.Join(componentDir, fmt.Sprintf("gen_%d.yaml", generation))
	if err := os.WriteFile(yamlPath, normalized, 0o644); err != nil {
		a.log.Warn("failed to write YAML rendering",
			zap.String("blueprint", name), zap.Error(err))
	}
}
