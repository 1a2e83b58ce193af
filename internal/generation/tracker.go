package generation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/klipworks/klipflow/internal/logging"
	"github.com/klipworks/klipflow/internal/shared/utils"
)

// ErrUnknownComponent means the component was never registered.
var ErrUnknownComponent = errors.New("generation: unknown component")

// Tracker state file names.
const (
	generationsFile = "generations.json"
	currentGenFile  = "current_generation.json"
	metricsFile     = "metrics_history.json"
)

var checksumHasher = utils.NewHasher(utils.MD5)

// GenerationRecord captures one completed generation of a component.
type GenerationRecord struct {
	Version   int            `json:"version"`
	Changes   map[string]any `json:"changes"`
	Metrics   map[string]any `json:"metrics"`
	Timestamp time.Time      `json:"timestamp"`
	Checksum  string         `json:"checksum"`
}

// ComponentRecord tracks one component's evolution.
type ComponentRecord struct {
	Generations       map[int]GenerationRecord `json:"generations"`
	CurrentGeneration int                      `json:"current_generation"`
	Description       string                   `json:"description"`
	Dependencies      []string                 `json:"dependencies"`
	CreatedAt         time.Time                `json:"created_at"`
	LastUpdated       time.Time                `json:"last_updated"`
}

// MetricsRecord is one metrics measurement tied to a generation.
type MetricsRecord struct {
	Generation int            `json:"generation"`
	Timestamp  time.Time      `json:"timestamp"`
	Values     map[string]any `json:"values"`
}

// TrendPoint is one (generation, value) pair of a metric's history.
type TrendPoint struct {
	Generation int `json:"generation"`
	Value      any `json:"value"`
}

// Tracker records the evolutionary state of components across generations.
// State persists as JSON under a base directory and survives restarts.
// Not safe for concurrent use.
type Tracker struct {
	basePath   string
	components map[string]*ComponentRecord
	current    map[string]int
	metrics    map[string][]MetricsRecord
	log        *logging.Logger
}

// NewTracker opens or initializes tracker state under basePath.
func NewTracker(basePath string, log *logging.Logger) (*Tracker, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create tracker directory: %w", err)
	}
	if log == nil {
		log = logging.NewNop()
	}

	t := &Tracker{
		basePath:   basePath,
		components: make(map[string]*ComponentRecord),
		current:    make(map[string]int),
		metrics:    make(map[string][]MetricsRecord),
		log:        log,
	}
	t.load()
	return t, nil
}

// load reads persisted state. Missing or corrupt files reset to empty
// rather than failing, so a damaged archive never blocks startup.
func (t *Tracker) load() {
	if !t.loadFile(generationsFile, &t.components) {
		t.components = make(map[string]*ComponentRecord)
	}
	if !t.loadFile(currentGenFile, &t.current) {
		t.current = make(map[string]int)
	}
	if !t.loadFile(metricsFile, &t.metrics) {
		t.metrics = make(map[string][]MetricsRecord)
	}
}

func (t *Tracker) loadFile(name string, target any) bool {
	data, err := os.ReadFile(filepath.Join(t.basePath, name))
	if err != nil {
		return false
	}
	if err := sonic.Unmarshal(data, target); err != nil {
		t.log.Warn("corrupt tracker state, resetting",
			zap.String("file", name), zap.Error(err))
		return false
	}
	return true
}

func (t *Tracker) save() error {
	files := map[string]any{
		generationsFile: t.components,
		currentGenFile:  t.current,
		metricsFile:     t.metrics,
	}
	for name, v := range files {
		data, err := sonic.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(t.basePath, name), data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

// Register adds a component to the tracking system. Returns false when the
// component is already registered.
func (t *Tracker) Register(name string, initialGeneration int, description string, dependencies []string) (bool, error) {
	if _, exists := t.components[name]; exists {
		return false, nil
	}
	if initialGeneration < 1 {
		initialGeneration = 1
	}

	now := time.Now()
	t.components[name] = &ComponentRecord{
		Generations:       make(map[int]GenerationRecord),
		CurrentGeneration: initialGeneration,
		Description:       description,
		Dependencies:      dependencies,
		CreatedAt:         now,
		LastUpdated:       now,
	}
	t.current[name] = initialGeneration

	if err := t.save(); err != nil {
		return false, err
	}
	t.log.Debug("registered component",
		zap.String("component", name), zap.Int("generation", initialGeneration))
	return true, nil
}

// Advance moves a component to the next generation, recording the changes
// and metrics that closed out the current one.
func (t *Tracker) Advance(name string, changes, metrics map[string]any) error {
	component, ok := t.components[name]
	if !ok {
		return fmt.Errorf("component %q: %w", name, ErrUnknownComponent)
	}

	currentGen := t.current[name]
	nextGen := currentGen + 1

	checksum, err := checksumHasher.HashJSON(changes)
	if err != nil {
		return fmt.Errorf("failed to checksum changes: %w", err)
	}

	now := time.Now()
	component.Generations[currentGen] = GenerationRecord{
		Version:   currentGen,
		Changes:   changes,
		Metrics:   metrics,
		Timestamp: now,
		Checksum:  checksum,
	}
	component.CurrentGeneration = nextGen
	component.LastUpdated = now
	t.current[name] = nextGen

	if len(metrics) > 0 {
		t.metrics[name] = append(t.metrics[name], MetricsRecord{
			Generation: currentGen,
			Timestamp:  now,
			Values:     metrics,
		})
	}

	if err := t.save(); err != nil {
		return err
	}
	t.log.Info("advanced generation",
		zap.String("component", name),
		zap.Int("from", currentGen),
		zap.Int("to", nextGen))
	return nil
}

// CurrentGeneration returns a component's current generation.
func (t *Tracker) CurrentGeneration(name string) (int, bool) {
	gen, ok := t.current[name]
	return gen, ok
}

// ComponentInfo returns the full record of a component.
func (t *Tracker) ComponentInfo(name string) (*ComponentRecord, bool) {
	component, ok := t.components[name]
	return component, ok
}

// History returns the complete generation history of a component.
func (t *Tracker) History(name string) (map[int]GenerationRecord, bool) {
	component, ok := t.components[name]
	if !ok {
		return nil, false
	}
	return component.Generations, true
}

// Components returns all registered component names, sorted.
func (t *Tracker) Components() []string {
	names := make([]string, 0, len(t.components))
	for name := range t.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MetricsTrend returns the history of one metric across generations.
func (t *Tracker) MetricsTrend(name, metric string) []TrendPoint {
	var trend []TrendPoint
	for _, record := range t.metrics[name] {
		if value, ok := record.Values[metric]; ok {
			trend = append(trend, TrendPoint{Generation: record.Generation, Value: value})
		}
	}
	return trend
}

// ComponentReport summarizes one component for Report.
type ComponentReport struct {
	CurrentGeneration int                      `json:"current_generation"`
	TotalGenerations  int                      `json:"total_generations"`
	Description       string                   `json:"description"`
	Dependencies      []string                 `json:"dependencies"`
	CreatedAt         time.Time                `json:"created_at"`
	LastUpdated       time.Time                `json:"last_updated"`
	Generations       map[int]GenerationRecord `json:"generations"`
	MetricsTrend      []MetricsRecord          `json:"metrics_trend,omitempty"`
}

// Report is a point-in-time summary of generational progress.
type Report struct {
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentReport `json:"components"`
}

// Report builds a progress report for one component, or for all of them
// when name is empty.
func (t *Tracker) Report(name string) Report {
	report := Report{
		Timestamp:  time.Now(),
		Components: make(map[string]ComponentReport),
	}

	names := []string{name}
	if name == "" {
		names = t.Components()
	}

	for _, n := range names {
		component, ok := t.components[n]
		if !ok {
			continue
		}
		report.Components[n] = ComponentReport{
			CurrentGeneration: component.CurrentGeneration,
			TotalGenerations:  len(component.Generations),
			Description:       component.Description,
			Dependencies:      component.Dependencies,
			CreatedAt:         component.CreatedAt,
			LastUpdated:       component.LastUpdated,
			Generations:       component.Generations,
			MetricsTrend:      t.metrics[n],
		}
	}
	return report
}
