package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/klipworks/klipflow/internal/logging"
)

// ErrValidationFailed reports that a component advanced but the validation
// check rejected the new generation.
var ErrValidationFailed = errors.New("validation failed")

// TestFunc measures the current generation and returns its metrics.
type TestFunc func(ctx context.Context) (map[string]any, error)

// ImproveFunc inspects test results and returns the improvements to apply.
// An empty result means the component needs no new generation.
type ImproveFunc func(ctx context.Context, results map[string]any) ([]string, error)

// ValidateFunc checks a freshly advanced generation.
type ValidateFunc func(ctx context.Context) (bool, error)

// Loop drives test, improve, advance, validate cycles over tracked
// components.
type Loop struct {
	tracker *Tracker
	log     *logging.Logger
}

// NewLoop creates an improvement loop over tracker.
func NewLoop(tracker *Tracker, log *logging.Logger) *Loop {
	if log == nil {
		log = logging.NewNop()
	}
	return &Loop{tracker: tracker, log: log}
}

// CycleResult describes the outcome of one improvement cycle.
type CycleResult struct {
	Component    string   `json:"component"`
	Generation   int      `json:"generation"`
	Advanced     bool     `json:"advanced"`
	Improvements []string `json:"improvements,omitempty"`
}

// RunCycle tests a component, applies improvements, and advances its
// generation when the improve step produced any. A non-nil validate
// function gates the cycle's success after the advance.
func (l *Loop) RunCycle(ctx context.Context, component string, test TestFunc, improve ImproveFunc, validate ValidateFunc) (CycleResult, error) {
	result := CycleResult{Component: component}

	current, ok := l.tracker.CurrentGeneration(component)
	if !ok {
		return result, fmt.Errorf("component %q: %w", component, ErrUnknownComponent)
	}
	result.Generation = current

	l.log.Info("starting improvement cycle",
		zap.String("component", component), zap.Int("generation", current))

	testResults, err := test(ctx)
	if err != nil {
		return result, fmt.Errorf("test step failed: %w", err)
	}

	improvements, err := improve(ctx, testResults)
	if err != nil {
		return result, fmt.Errorf("improve step failed: %w", err)
	}
	if len(improvements) == 0 {
		l.log.Info("no improvements needed", zap.String("component", component))
		return result, nil
	}
	result.Improvements = improvements

	changes := map[string]any{
		"improvements_applied": improvements,
		"test_results":         testResults,
		"timestamp":            time.Now().Format(time.RFC3339Nano),
	}
	if err := l.tracker.Advance(component, changes, testResults); err != nil {
		return result, fmt.Errorf("failed to advance %q: %w", component, err)
	}
	result.Advanced = true
	result.Generation = current + 1

	if validate != nil {
		valid, err := validate(ctx)
		if err != nil {
			return result, fmt.Errorf("validation step failed: %w", err)
		}
		if !valid {
			l.log.Warn("new generation rejected",
				zap.String("component", component), zap.Int("generation", result.Generation))
			return result, fmt.Errorf("component %q generation %d: %w",
				component, result.Generation, ErrValidationFailed)
		}
	}

	l.log.Info("improvement cycle complete",
		zap.String("component", component),
		zap.Int("generation", result.Generation),
		zap.Int("improvements", len(improvements)))
	return result, nil
}
