package generation

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoBlueprint = `name: Demo
phases:
  - name: main
    steps:
      - name: Classify
        unit: Worker
        tool: content-classification
units:
  - name: Worker
    role: classifier
`

func newTestArchive(t *testing.T) *Archive {
	t.Helper()
	dir := t.TempDir()
	tracker, err := NewTracker(filepath.Join(dir, "state"), nil)
	require.NoError(t, err)
	archive, err := NewArchive(tracker, filepath.Join(dir, "blueprints"), nil)
	require.NoError(t, err)
	return archive
}

func TestArchiveRegisterStoresFirstGeneration(t *testing.T) {
	archive := newTestArchive(t)

	require.NoError(t, archive.Register("demo", demoBlueprint, 1, "demo flow"))

	content, err := archive.Version("demo", 1)
	require.NoError(t, err)
	assert.Equal(t, demoBlueprint, content)

	gen, ok := archive.Tracker().CurrentGeneration("demo")
	require.True(t, ok)
	assert.Equal(t, 1, gen)

	info, ok := archive.Tracker().ComponentInfo("demo")
	require.True(t, ok)
	assert.Equal(t, "demo flow", info.Description)
}

func TestArchiveRegisterDefaultsDescription(t *testing.T) {
	archive := newTestArchive(t)

	require.NoError(t, archive.Register("demo", demoBlueprint, 0, ""))

	info, ok := archive.Tracker().ComponentInfo("demo")
	require.True(t, ok)
	assert.Equal(t, "Blueprint: demo", info.Description)

	gen, _ := archive.Tracker().CurrentGeneration("demo")
	assert.Equal(t, 1, gen)
}

func TestArchiveEvolve(t *testing.T) {
	archive := newTestArchive(t)
	require.NoError(t, archive.Register("demo", demoBlueprint, 1, ""))

	evolved := demoBlueprint + "      - name: Score\n        unit: Worker\n        tool: workflow-scoring\n"
	changes := map[string]any{"added": "scoring step"}
	require.NoError(t, archive.Evolve("demo", evolved, changes, map[string]any{"steps": 2}))

	content, gen, err := archive.Latest("demo")
	require.NoError(t, err)
	assert.Equal(t, 2, gen)
	assert.Equal(t, evolved, content)

	first, err := archive.Version("demo", 1)
	require.NoError(t, err)
	assert.Equal(t, demoBlueprint, first, "earlier generations stay intact")

	history, ok := archive.Tracker().History("demo")
	require.True(t, ok)
	assert.Equal(t, "scoring step", history[1].Changes["added"])
}

func TestArchiveEvolveUnknownBlueprint(t *testing.T) {
	archive := newTestArchive(t)

	err := archive.Evolve("ghost", "content", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownComponent))
}

func TestArchiveVersionMissing(t *testing.T) {
	archive := newTestArchive(t)
	require.NoError(t, archive.Register("demo", demoBlueprint, 1, ""))

	_, err := archive.Version("demo", 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestArchiveLatestUnknownBlueprint(t *testing.T) {
	archive := newTestArchive(t)

	_, _, err := archive.Latest("ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownComponent))
}

func TestArchiveGenerationsSortedNumerically(t *testing.T) {
	archive := newTestArchive(t)
	require.NoError(t, archive.Register("demo", "v1", 1, ""))

	for i := 2; i <= 12; i++ {
		content := fmt.Sprintf("v%d", i)
		require.NoError(t, archive.Evolve("demo", content, map[string]any{"rev": i}, nil))
	}

	generations, err := archive.Generations("demo")
	require.NoError(t, err)
	expected := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	assert.Equal(t, expected, generations)
}

func TestArchiveGenerationsEmptyForUnknown(t *testing.T) {
	archive := newTestArchive(t)

	generations, err := archive.Generations("ghost")
	require.NoError(t, err)
	assert.Empty(t, generations)
}

func TestArchiveCompare(t *testing.T) {
	archive := newTestArchive(t)
	require.NoError(t, archive.Register("demo", "a\nb", 1, ""))
	require.NoError(t, archive.Evolve("demo", "a\nb\nc\nd", map[string]any{"rev": 2}, nil))

	comparison, err := archive.Compare("demo", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "demo", comparison.Blueprint)
	assert.Equal(t, 1, comparison.Generation1)
	assert.Equal(t, 2, comparison.Generation2)
	assert.Equal(t, 2, comparison.LinesAdded)
	assert.Equal(t, 4, comparison.ContentLengthDiff)
	assert.Equal(t, 3, comparison.Content1Length)
	assert.Equal(t, 7, comparison.Content2Length)
}

func TestArchiveWritesNormalizedYAML(t *testing.T) {
	archive := newTestArchive(t)

	marked := "⫻cfg/kl:pipeline/0\n" + demoBlueprint
	require.NoError(t, archive.Register("demo", marked, 1, ""))

	yamlPath := filepath.Join(archive.dir, "demo", "gen_1.yaml")
	rendered, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	assert.NotContains(t, string(rendered), "⫻")
	assert.Contains(t, string(rendered), "name: Demo")

	content, err := archive.Version("demo", 1)
	require.NoError(t, err)
	assert.Equal(t, marked, content, "archive keeps the raw document")
}

func TestArchiveSkipsYAMLForUnparsableContent(t *testing.T) {
	archive := newTestArchive(t)

	broken := "units: [unclosed\n"
	require.NoError(t, archive.Register("demo", broken, 1, ""))

	content, err := archive.Version("demo", 1)
	require.NoError(t, err)
	assert.Equal(t, broken, content)

	_, err = os.Stat(filepath.Join(archive.dir, "demo", "gen_1.yaml"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
