package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/xu-lang/xubench/internal/invoke"
	"github.com/xu-lang/xubench/internal/models"
	"github.com/xu-lang/xubench/internal/parse"
	"github.com/xu-lang/xubench/internal/stats"
)

// DefaultProbeRounds is how many times each CLI probe runs when the
// caller gives no count.
const DefaultProbeRounds = 5

// ProbeOutcome aggregates the rounds of one single-shot CLI probe.
type ProbeOutcome struct {
	ID      models.RuntimeID     `json:"id"`
	Samples []models.ProbeSample `json:"samples"`
	// Iters comes from the probe's own output; every round reports the
	// same count.
	Iters       uint64  `json:"iters"`
	MedianPerNs float64 `json:"median_per_ns"`
	StdevPerNs  float64 `json:"stdev_per_ns"`
}

// RunProbes executes every configured CLI probe the given number of
// rounds, sequentially. Unlike sweep repetitions, a probe failure is
// fatal: probes are cheap and a broken probe binary is a setup error,
// not noise to degrade around.
func (r *Runner) RunProbes(ctx context.Context, rounds int) ([]ProbeOutcome, error) {
	if rounds <= 0 {
		rounds = DefaultProbeRounds
	}
	suite := r.cfg.Suite()

	outcomes := make([]ProbeOutcome, 0, len(suite.Probes))
	for _, probe := range suite.Probes {
		outcome, err := r.runProbe(ctx, probe, rounds)
		if err != nil {
			return nil, fmt.Errorf("probe %s: %w", probe.ID, err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (r *Runner) runProbe(ctx context.Context, probe models.ProbeSpec, rounds int) (ProbeOutcome, error) {
	outcome := ProbeOutcome{ID: probe.ID}

	perNs := make([]float64, 0, rounds)
	for round := 1; round <= rounds; round++ {
		if ctx.Err() != nil {
			return outcome, ErrPipelineTimeout
		}
		r.notifyProgress(ProgressEvent{
			EventType: EventRunStart,
			RunNum:    round,
			TotalRuns: rounds,
			Runtime:   probe.ID,
		})

		start := time.Now()
		res, err := r.invoker.Invoke(ctx, invoke.CommandSpec{
			Command: probe.Command,
			Args:    probe.Args,
			Dir:     r.cfg.WorkDir(),
			Timeout: r.cfg.RunTimeout(),
		})
		if err != nil {
			if pipelineAborted(ctx, err) {
				return outcome, ErrPipelineTimeout
			}
			return outcome, err
		}

		sample, err := parse.Probe(res.Stdout)
		if err != nil {
			return outcome, err
		}
		outcome.Samples = append(outcome.Samples, sample)
		outcome.Iters = sample.Iters
		perNs = append(perNs, float64(sample.PerNs))

		r.notifyProgress(ProgressEvent{
			EventType:  EventRunComplete,
			RunNum:     round,
			TotalRuns:  rounds,
			Runtime:    probe.ID,
			DurationMs: time.Since(start).Milliseconds(),
		})
	}

	summary := stats.Summarize(perNs)
	outcome.MedianPerNs = summary.Median
	outcome.StdevPerNs = summary.Stdev
	return outcome, nil
}
