// Package rhythm implements the usage-rhythm capability: given the
// timestamps of past clipboard events it projects when the next one is due,
// from the mean gap between consecutive events.
package rhythm

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/klipworks/klipflow/internal/capability"
)

// Name is the registered capability name.
const Name = "usage-rhythm"

// defaultHorizon is the fallback gap when fewer than two events exist.
const defaultHorizon = 3600.0

// Prediction is the record the capability returns.
type Prediction struct {
	Next     float64 `json:"next"`
	Interval float64 `json:"interval"`
	Spread   float64 `json:"spread"`
	Events   int     `json:"events"`
}

// Predictor projects the next event time. Deterministic when the caller
// supplies "now"; otherwise the wall clock is used.
type Predictor struct {
	now func() float64
}

// New creates the rhythm capability.
func New() *Predictor {
	return &Predictor{now: func() float64 { return float64(time.Now().Unix()) }}
}

// Name implements capability.Capability.
func (p *Predictor) Name() string { return Name }

// Run reads the "events" argument (a list of Unix timestamps) and an
// optional "now" override, and returns a Prediction.
func (p *Predictor) Run(input map[string]any) (any, error) {
	raw, ok := capability.First(input, "events", "timestamps")
	if !ok {
		raw, _ = capability.Sole(input)
	}

	events := make([]float64, 0)
	for _, v := range capability.Records(raw) {
		if f, ok := asFloat(v); ok {
			events = append(events, f)
		}
	}

	now := p.now()
	if override, ok := asFloat(input["now"]); ok {
		now = override
	}

	return Predict(events, now), nil
}

// Predict computes the next-event projection for sorted or unsorted event
// timestamps relative to now.
func Predict(events []float64, now float64) Prediction {
	if len(events) < 2 {
		return Prediction{Next: now + defaultHorizon, Events: len(events)}
	}

	sorted := make([]float64, len(events))
	copy(sorted, events)
	sort.Float64s(sorted)

	intervals := make([]float64, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		intervals[i-1] = sorted[i] - sorted[i-1]
	}

	avg := stat.Mean(intervals, nil)
	spread := 0.0
	if len(intervals) > 1 {
		spread = stat.StdDev(intervals, nil)
	}

	next := sorted[len(sorted)-1] + avg
	if avg > 0 {
		for next < now {
			next += avg
		}
	} else if next < now {
		next = now
	}

	return Prediction{Next: next, Interval: avg, Spread: spread, Events: len(sorted)}
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	default:
		return 0, false
	}
}
