package generation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	tracker, err := NewTracker(t.TempDir(), nil)
	require.NoError(t, err)
	return tracker
}

func TestRegisterComponent(t *testing.T) {
	tracker := newTestTracker(t)

	created, err := tracker.Register("classifier", 1, "content classifier", nil)
	require.NoError(t, err)
	assert.True(t, created)

	gen, ok := tracker.CurrentGeneration("classifier")
	require.True(t, ok)
	assert.Equal(t, 1, gen)

	info, ok := tracker.ComponentInfo("classifier")
	require.True(t, ok)
	assert.Equal(t, "content classifier", info.Description)
	assert.False(t, info.CreatedAt.IsZero())
}

func TestRegisterExistingComponent(t *testing.T) {
	tracker := newTestTracker(t)

	created, err := tracker.Register("classifier", 1, "first", nil)
	require.NoError(t, err)
	require.True(t, created)

	created, err = tracker.Register("classifier", 5, "second", nil)
	require.NoError(t, err)
	assert.False(t, created)

	gen, _ := tracker.CurrentGeneration("classifier")
	assert.Equal(t, 1, gen, "existing registration must win")
}

func TestRegisterClampsGeneration(t *testing.T) {
	tracker := newTestTracker(t)

	created, err := tracker.Register("scorer", 0, "", nil)
	require.NoError(t, err)
	require.True(t, created)

	gen, _ := tracker.CurrentGeneration("scorer")
	assert.Equal(t, 1, gen)
}

func TestAdvanceGeneration(t *testing.T) {
	tracker := newTestTracker(t)
	_, err := tracker.Register("classifier", 1, "", nil)
	require.NoError(t, err)

	changes := map[string]any{"tuned": "thresholds"}
	metrics := map[string]any{"accuracy": 0.9}
	require.NoError(t, tracker.Advance("classifier", changes, metrics))

	gen, _ := tracker.CurrentGeneration("classifier")
	assert.Equal(t, 2, gen)

	history, ok := tracker.History("classifier")
	require.True(t, ok)
	require.Contains(t, history, 1, "record keyed by the generation it closed")

	record := history[1]
	assert.Equal(t, 1, record.Version)
	assert.Equal(t, "thresholds", record.Changes["tuned"])
	assert.Len(t, record.Checksum, 32)
}

func TestAdvanceUnknownComponent(t *testing.T) {
	tracker := newTestTracker(t)

	err := tracker.Advance("ghost", map[string]any{"x": 1}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownComponent))
}

func TestChecksumDependsOnChanges(t *testing.T) {
	tracker := newTestTracker(t)
	_, err := tracker.Register("classifier", 1, "", nil)
	require.NoError(t, err)

	require.NoError(t, tracker.Advance("classifier", map[string]any{"a": 1}, nil))
	require.NoError(t, tracker.Advance("classifier", map[string]any{"a": 1}, nil))
	require.NoError(t, tracker.Advance("classifier", map[string]any{"a": 2}, nil))

	history, _ := tracker.History("classifier")
	assert.Equal(t, history[1].Checksum, history[2].Checksum)
	assert.NotEqual(t, history[1].Checksum, history[3].Checksum)
}

func TestTrackerPersistsAcrossReload(t *testing.T) {
	dir := t.TempDir()

	tracker, err := NewTracker(dir, nil)
	require.NoError(t, err)
	_, err = tracker.Register("classifier", 1, "persisted", []string{"analyzer"})
	require.NoError(t, err)
	require.NoError(t, tracker.Advance("classifier",
		map[string]any{"tuned": true}, map[string]any{"accuracy": 0.75}))

	reloaded, err := NewTracker(dir, nil)
	require.NoError(t, err)

	gen, ok := reloaded.CurrentGeneration("classifier")
	require.True(t, ok)
	assert.Equal(t, 2, gen)

	info, ok := reloaded.ComponentInfo("classifier")
	require.True(t, ok)
	assert.Equal(t, "persisted", info.Description)
	assert.Equal(t, []string{"analyzer"}, info.Dependencies)

	trend := reloaded.MetricsTrend("classifier", "accuracy")
	require.Len(t, trend, 1)
	assert.Equal(t, 1, trend[0].Generation)
	assert.Equal(t, 0.75, trend[0].Value)
}

func TestTrackerRecoversFromCorruptState(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, generationsFile), []byte("{not json"), 0o644))

	tracker, err := NewTracker(dir, nil)
	require.NoError(t, err)
	assert.Empty(t, tracker.Components())

	created, err := tracker.Register("fresh", 1, "", nil)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestMetricsTrend(t *testing.T) {
	tracker := newTestTracker(t)
	_, err := tracker.Register("scorer", 1, "", nil)
	require.NoError(t, err)

	for i, accuracy := range []float64{0.5, 0.7, 0.9} {
		changes := map[string]any{"iteration": i}
		require.NoError(t, tracker.Advance("scorer", changes, map[string]any{
			"accuracy": accuracy,
			"latency":  float64(100 - i*10),
		}))
	}

	trend := tracker.MetricsTrend("scorer", "accuracy")
	require.Len(t, trend, 3)
	assert.Equal(t, 1, trend[0].Generation)
	assert.Equal(t, 0.5, trend[0].Value)
	assert.Equal(t, 3, trend[2].Generation)
	assert.Equal(t, 0.9, trend[2].Value)

	assert.Empty(t, tracker.MetricsTrend("scorer", "missing"))
	assert.Empty(t, tracker.MetricsTrend("ghost", "accuracy"))
}

func TestComponentsSorted(t *testing.T) {
	tracker := newTestTracker(t)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := tracker.Register(name, 1, "", nil)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, tracker.Components())
}

func TestReport(t *testing.T) {
	tracker := newTestTracker(t)
	_, err := tracker.Register("classifier", 1, "classifies content", nil)
	require.NoError(t, err)
	_, err = tracker.Register("scorer", 1, "scores workflows", nil)
	require.NoError(t, err)
	require.NoError(t, tracker.Advance("classifier", map[string]any{"v": 2}, nil))

	all := tracker.Report("")
	require.Len(t, all.Components, 2)
	assert.Equal(t, 2, all.Components["classifier"].CurrentGeneration)
	assert.Equal(t, 1, all.Components["classifier"].TotalGenerations)
	assert.Equal(t, 1, all.Components["scorer"].CurrentGeneration)

	single := tracker.Report("scorer")
	require.Len(t, single.Components, 1)
	assert.Contains(t, single.Components, "scorer")
}
