// Package orchestration drives the benchmark sweep: repeated guarded
// invocations per scale, sample accumulation, and aggregation into a
// SweepResult. Scheduling is strictly sequential; concurrent benchmark
// processes would contend for CPU and invalidate the timings.
package orchestration

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xu-lang/xubench/internal/config"
	"github.com/xu-lang/xubench/internal/invoke"
	"github.com/xu-lang/xubench/internal/models"
	"github.com/xu-lang/xubench/internal/parse"
	"github.com/xu-lang/xubench/internal/stats"
)

// ErrPipelineTimeout reports that the whole-pipeline deadline fired. It
// is a hard failure: the sweep unwinds to a non-zero exit, but snapshots
// already persisted stay valid.
var ErrPipelineTimeout = errors.New("pipeline total timeout exceeded")

// EventType classifies a progress event.
type EventType string

// Progress event types. A full sweep at high scale and run counts takes
// minutes, so observable progress is a liveness requirement.
const (
	EventSweepStart      EventType = "sweep_start"
	EventSweepComplete   EventType = "sweep_complete"
	EventScaleStart      EventType = "scale_start"
	EventScaleComplete   EventType = "scale_complete"
	EventRunStart        EventType = "run_start"
	EventRunComplete     EventType = "run_complete"
	EventRuntimeFallback EventType = "runtime_fallback"
	EventInvokeError     EventType = "invoke_error"
)

// ProgressEvent is one progress update delivered to listeners.
type ProgressEvent struct {
	EventType   EventType
	Scale       uint
	RunNum      int
	TotalRuns   int
	TotalScales int
	Runtime     models.RuntimeID
	DurationMs  int64
	Message     string
}

// ProgressListener receives progress updates.
type ProgressListener func(event ProgressEvent)

// Runner orchestrates one full sweep.
type Runner struct {
	cfg     *config.PipelineConfig
	invoker invoke.Invoker

	progressMu sync.Mutex
	listeners  []ProgressListener
}

// NewRunner creates a sweep runner over the given invoker.
func NewRunner(cfg *config.PipelineConfig, invoker invoke.Invoker) *Runner {
	return &Runner{cfg: cfg, invoker: invoker}
}

// OnProgress registers a progress listener.
func (r *Runner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *Runner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// Run executes the full sweep under ctx, which carries the pipeline-wide
// deadline. Invocation-level failures degrade the affected samples and
// the sweep continues; only the pipeline deadline aborts it.
func (r *Runner) Run(ctx context.Context) (*models.SweepResult, error) {
	suite := r.cfg.Suite()
	start := time.Now()

	sweep := &models.SweepResult{
		SuiteName:       suite.Name,
		Scales:          r.cfg.Scales(),
		Runs:            r.cfg.Runs(),
		GeneratedAt:     start.UTC(),
		Runtimes:        suite.RuntimeOrder(),
		RuntimeVersions: r.gatherVersions(ctx),
	}

	r.notifyProgress(ProgressEvent{
		EventType:   EventSweepStart,
		TotalScales: len(sweep.Scales),
		TotalRuns:   sweep.Runs,
	})

	for _, scale := range sweep.Scales {
		scaleStats, err := r.runScale(ctx, scale)
		if err != nil {
			return nil, err
		}
		sweep.Results = append(sweep.Results, scaleStats)
	}

	r.notifyProgress(ProgressEvent{
		EventType:  EventSweepComplete,
		DurationMs: time.Since(start).Milliseconds(),
	})
	return sweep, nil
}

// accumulator collects duration and memory samples per (runtime, case)
// across the repetitions of one scale.
type accumulator struct {
	durations map[models.RuntimeID]map[models.CaseID][]float64
	memory    map[models.RuntimeID]map[models.CaseID][]float64
}

func newAccumulator() *accumulator {
	return &accumulator{
		durations: make(map[models.RuntimeID]map[models.CaseID][]float64),
		memory:    make(map[models.RuntimeID]map[models.CaseID][]float64),
	}
}

func (a *accumulator) add(runtime models.RuntimeID, samples map[models.CaseID]models.Sample) {
	if len(samples) == 0 {
		return
	}
	if a.durations[runtime] == nil {
		a.durations[runtime] = make(map[models.CaseID][]float64)
		a.memory[runtime] = make(map[models.CaseID][]float64)
	}
	for caseID, sample := range samples {
		a.durations[runtime][caseID] = append(a.durations[runtime][caseID], sample.DurationMs)
		if sample.HasMemory() {
			a.memory[runtime][caseID] = append(a.memory[runtime][caseID], sample.MemoryMB)
		}
	}
}

// cases returns the canonical case enumeration merged with any extra
// cases observed in the output, so a scale whose invocations all failed
// still reports every known case (as NaN stats).
func (a *accumulator) cases() []models.CaseID {
	seen := make(map[models.CaseID]bool, len(models.CaseOrder))
	out := make([]models.CaseID, 0, len(models.CaseOrder))
	for _, c := range models.CaseOrder {
		seen[c] = true
		out = append(out, c)
	}
	for _, byCase := range a.durations {
		for c := range byCase {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

func (r *Runner) runScale(ctx context.Context, scale uint) (models.ScaleStats, error) {
	suite := r.cfg.Suite()
	runs := r.cfg.Runs()

	r.notifyProgress(ProgressEvent{EventType: EventScaleStart, Scale: scale, TotalRuns: runs})

	// Warmup repetitions are invoked identically and discarded.
	for i := 0; i < r.cfg.WarmupRuns(); i++ {
		if ctx.Err() != nil {
			return models.ScaleStats{}, ErrPipelineTimeout
		}
		if _, err := r.invokeSweep(ctx, scale); err != nil {
			if pipelineAborted(ctx, err) {
				return models.ScaleStats{}, ErrPipelineTimeout
			}
			r.reportInvokeError(scale, 0, err)
		}
	}

	acc := newAccumulator()
	for rep := 1; rep <= runs; rep++ {
		if ctx.Err() != nil {
			return models.ScaleStats{}, ErrPipelineTimeout
		}
		r.notifyProgress(ProgressEvent{EventType: EventRunStart, Scale: scale, RunNum: rep, TotalRuns: runs})

		repStart := time.Now()
		parsed, err := r.invokeSweep(ctx, scale)
		if err != nil {
			if pipelineAborted(ctx, err) {
				return models.ScaleStats{}, ErrPipelineTimeout
			}
			// Degrade to "no sample" for this repetition and move on: a
			// single hang or crash must not abort the sweep.
			r.reportInvokeError(scale, rep, err)
			continue
		}

		for _, rt := range suite.Runtimes {
			samples := parsed[rt.ID]
			if len(samples) == 0 && rt.Fallback != nil {
				samples = r.invokeFallback(ctx, rt, scale)
			}
			acc.add(rt.ID, samples)
		}

		r.notifyProgress(ProgressEvent{
			EventType:  EventRunComplete,
			Scale:      scale,
			RunNum:     rep,
			TotalRuns:  runs,
			DurationMs: time.Since(repStart).Milliseconds(),
		})
	}

	result := models.ScaleStats{
		Scale: scale,
		Cases: make(map[models.CaseID]map[models.RuntimeID]models.CaseStats),
	}
	for _, caseID := range acc.cases() {
		byRuntime := make(map[models.RuntimeID]models.CaseStats, len(suite.Runtimes))
		for _, rt := range suite.Runtimes {
			byRuntime[rt.ID] = models.CaseStats{
				Duration: stats.Summarize(acc.durations[rt.ID][caseID]),
				MemoryMB: stats.Summarize(acc.memory[rt.ID][caseID]),
			}
		}
		result.Cases[caseID] = byRuntime
	}

	r.notifyProgress(ProgressEvent{EventType: EventScaleComplete, Scale: scale})
	return result, nil
}

// invokeSweep runs the multi-runtime sweep entry point once with the
// scale appended as its final argument and parses its sectioned stdout.
func (r *Runner) invokeSweep(ctx context.Context, scale uint) (map[models.RuntimeID]map[models.CaseID]models.Sample, error) {
	suite := r.cfg.Suite()
	spec := invoke.CommandSpec{
		Command: suite.Sweep.Command,
		Args:    append(append([]string(nil), suite.Sweep.Args...), strconv.FormatUint(uint64(scale), 10)),
		Env:     suite.Sweep.Env,
		Dir:     r.cfg.WorkDir(),
		Timeout: r.cfg.RunTimeout(),
	}

	res, err := r.invoker.Invoke(ctx, spec)
	if err != nil {
		return nil, err
	}
	return parse.Sweep(res.Stdout, scale, suite.SectionLabels()), nil
}

// invokeFallback re-invokes one runtime's own benchmark entry point when
// its sweep section parsed empty, and parses that runtime's direct
// stdout. Failures here degrade to "no samples"; the fallback exists to
// rescue data, not to add failure modes.
func (r *Runner) invokeFallback(ctx context.Context, rt models.RuntimeSpec, scale uint) map[models.CaseID]models.Sample {
	r.notifyProgress(ProgressEvent{EventType: EventRuntimeFallback, Scale: scale, Runtime: rt.ID})

	env := make(map[string]string, len(rt.Fallback.Env)+2)
	for k, v := range rt.Fallback.Env {
		env[k] = v
	}
	env["BENCH_SCALE"] = strconv.FormatUint(uint64(scale), 10)
	env["BENCH_SMOKE"] = "0"

	spec := invoke.CommandSpec{
		Command: rt.Fallback.Command,
		Args:    rt.Fallback.Args,
		Env:     env,
		Dir:     r.cfg.WorkDir(),
		Timeout: r.cfg.RunTimeout(),
	}

	res, err := r.invoker.Invoke(ctx, spec)
	if err != nil {
		if !pipelineAborted(ctx, err) {
			slog.Warn("fallback invocation failed", "runtime", rt.ID, "scale", scale, "error", err)
		}
		return nil
	}
	return parse.Runtime(res.Stdout, scale, rt.ID)
}

// gatherVersions captures each runtime's version string for the report
// environment block. Version probes are best effort.
func (r *Runner) gatherVersions(ctx context.Context) map[models.RuntimeID]string {
	versions := make(map[models.RuntimeID]string)
	for _, rt := range r.cfg.Suite().Runtimes {
		if rt.Version == nil {
			continue
		}
		spec := invoke.CommandSpec{
			Command: rt.Version.Command,
			Args:    rt.Version.Args,
			Env:     rt.Version.Env,
			Dir:     r.cfg.WorkDir(),
			Timeout: 30 * time.Second,
		}
		res, err := r.invoker.Invoke(ctx, spec)
		if err != nil {
			var exitErr *invoke.ExitError
			// Some runtimes print their version and exit nonzero.
			if !errors.As(err, &exitErr) {
				slog.Debug("version probe failed", "runtime", rt.ID, "error", err)
				continue
			}
			res = invoke.Result{Stdout: exitErr.Stdout, Stderr: exitErr.Stderr}
		}
		if v := firstLine(res.Stdout); v != "" {
			versions[rt.ID] = v
		} else if v := firstLine(res.Stderr); v != "" {
			versions[rt.ID] = v
		}
	}
	return versions
}

func (r *Runner) reportInvokeError(scale uint, rep int, err error) {
	var timeoutErr *invoke.TimeoutError
	var exitErr *invoke.ExitError
	switch {
	case errors.As(err, &timeoutErr):
		slog.Warn("invocation timed out, dropping repetition",
			"scale", scale, "run", rep, "command", timeoutErr.Command, "timeout", timeoutErr.Timeout)
	case errors.As(err, &exitErr):
		slog.Warn("invocation exited nonzero, dropping repetition",
			"scale", scale, "run", rep, "command", exitErr.Command, "code", exitErr.Code,
			"stdout", exitErr.Stdout, "stderr", exitErr.Stderr)
	default:
		slog.Warn("invocation failed, dropping repetition", "scale", scale, "run", rep, "error", err)
	}
	r.notifyProgress(ProgressEvent{EventType: EventInvokeError, Scale: scale, RunNum: rep, Message: err.Error()})
}

// pipelineAborted distinguishes the whole-pipeline deadline (or external
// cancellation) from per-invocation failures.
func pipelineAborted(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
