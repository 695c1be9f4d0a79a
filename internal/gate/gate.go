// Package gate implements the regression gate: a simple-percentage
// comparison of the two newest snapshots. It is deliberately not a
// statistical test — the single most recent median is accepted as ground
// truth, which keeps the CI signal cheap at the cost of sensitivity to
// environmental noise.
package gate

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/xu-lang/xubench/internal/history"
	"github.com/xu-lang/xubench/internal/models"
)

// DefaultThresholdPct is the regression threshold when none is given.
const DefaultThresholdPct = 10.0

// Result is the gate's policy outcome. A failed gate is reported through
// Findings and a dedicated exit code, distinct from pipeline crashes.
type Result struct {
	// Skipped is set when fewer than two snapshots exist: a fresh
	// history is never treated as a regression.
	Skipped    bool
	SkipReason string

	ThresholdPct float64
	Findings     []models.RegressionFinding

	// OldStamp and NewStamp identify the compared snapshots.
	OldStamp string
	NewStamp string
}

// Passed reports whether the gate allows the build through.
func (r Result) Passed() bool {
	return r.Skipped || len(r.Findings) == 0
}

// Check loads the two newest snapshots from the store and compares every
// tracked case at every scale common to both. All findings are collected
// and returned together, not just the first. A zero threshold is honored
// and fails any positive delta; only a negative threshold means "unset"
// and falls back to the default.
func Check(store *history.Store, tracked []models.CaseID, thresholdPct float64) (Result, error) {
	if thresholdPct < 0 {
		thresholdPct = DefaultThresholdPct
	}
	result := Result{ThresholdPct: thresholdPct}

	snaps, err := store.Latest(2)
	if err != nil {
		var insufficient *history.InsufficientHistoryError
		if errors.As(err, &insufficient) {
			result.Skipped = true
			result.SkipReason = fmt.Sprintf("insufficient history (%d snapshot(s))", insufficient.Have)
			return result, nil
		}
		return result, err
	}

	newest, previous := snaps[0], snaps[1]
	result.NewStamp = newest.Stamp()
	result.OldStamp = previous.Stamp()
	result.Findings = Compare(previous, newest, tracked, thresholdPct)
	return result, nil
}

// Compare finds every tracked (scale, case, runtime) whose median rose
// past thresholdPct between old and new. Scales present in only one
// snapshot are ignored, not flagged.
func Compare(old, latest *models.Snapshot, tracked []models.CaseID, thresholdPct float64) []models.RegressionFinding {
	var findings []models.RegressionFinding

	for _, scale := range models.CommonScales(old, latest) {
		oldResult := old.Result(scale)
		newResult := latest.Result(scale)

		for _, caseID := range tracked {
			oldCase, okOld := oldResult.Cases[caseID]
			newCase, okNew := newResult.Cases[caseID]
			if !okOld || !okNew {
				continue
			}
			// Map iteration order varies between runs; sort so CI output
			// and finding order are stable.
			runtimes := make([]models.RuntimeID, 0, len(newCase.Medians))
			for runtime := range newCase.Medians {
				runtimes = append(runtimes, runtime)
			}
			sort.Slice(runtimes, func(i, j int) bool { return runtimes[i] < runtimes[j] })

			for _, runtime := range runtimes {
				newMedian := newCase.Medians[runtime]
				oldMedian, ok := oldCase.Medians[runtime]
				if !ok {
					continue
				}
				delta := DeltaPct(oldMedian, newMedian)
				if delta > thresholdPct {
					findings = append(findings, models.RegressionFinding{
						Scale:    scale,
						Case:     caseID,
						Runtime:  runtime,
						DeltaPct: delta,
					})
				}
			}
		}
	}
	return findings
}

// DeltaPct computes (new/old - 1) * 100. Absent, non-finite, or
// non-positive old medians yield 0: no signal, never a spurious
// regression or improvement.
func DeltaPct(oldMedian, newMedian float64) float64 {
	if !finite(oldMedian) || !finite(newMedian) || oldMedian <= 0 {
		return 0
	}
	return (newMedian/oldMedian - 1.0) * 100.0
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
