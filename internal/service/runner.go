package service

import (
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/klipworks/klipflow/internal/blueprint"
	"github.com/klipworks/klipflow/internal/engine"
	"github.com/klipworks/klipflow/internal/logging"
	"github.com/klipworks/klipflow/internal/monitoring"
	"github.com/klipworks/klipflow/internal/shared/id"
)

// Runner executes blueprint documents with a shared option set. Every run
// builds its own engine, so Runner is safe for concurrent use.
type Runner struct {
	opts    []engine.Option
	metrics *monitoring.Metrics
	log     *logging.Logger
}

// RunResult is the outcome of one workflow run.
type RunResult struct {
	RunID    id.RunID            `json:"run_id"`
	State    engine.State        `json:"state"`
	Trace    []engine.StepRecord `json:"trace"`
	Duration time.Duration       `json:"duration"`
}

// NewRunner creates a workflow runner. The engine options are applied to
// every run; capabilities and depth limits belong here.
func NewRunner(log *logging.Logger, metrics *monitoring.Metrics, opts ...engine.Option) *Runner {
	if log == nil {
		log = logging.NewNop()
	}
	return &Runner{opts: opts, metrics: metrics, log: log}
}

// Run executes doc against an initial state. A non-nil observer receives
// every step record as it happens, including nested sub-run steps.
func (r *Runner) Run(doc *blueprint.Document, initial map[string]any, obs engine.Observer) (*RunResult, error) {
	runID := id.NewRunID()

	var trace []engine.StepRecord
	tee := func(record engine.StepRecord) {
		trace = append(trace, record)
		if r.metrics != nil {
			status := "ok"
			if record.Skipped {
				status = "skipped"
			}
			r.metrics.RecordStep(status)
		}
		if obs != nil {
			obs(record)
		}
	}

	opts := append(slices.Clone(r.opts), engine.WithObserver(tee))
	eng := engine.New(opts...)
	eng.Attach(doc)

	start := time.Now()
	final, err := eng.Execute(initial)
	elapsed := time.Since(start)

	if r.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		r.metrics.RecordRun(status, elapsed)
	}

	if err != nil {
		r.log.Warn("workflow run failed",
			zap.String("run_id", runID.String()),
			zap.Error(err))
		return nil, err
	}

	r.log.Info("workflow run complete",
		zap.String("run_id", runID.String()),
		zap.Int("steps", len(trace)),
		zap.Duration("duration", elapsed))

	return &RunResult{RunID: runID, State: final, Trace: trace, Duration: elapsed}, nil
}

// RunFile loads a blueprint from disk and executes it.
func (r *Runner) RunFile(path string, initial map[string]any, obs engine.Observer) (*RunResult, error) {
	doc, err := blueprint.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return r.Run(doc, initial, obs)
}
