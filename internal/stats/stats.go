// Package stats reduces repeated duration samples into the summary
// statistics the report and the regression gate consume.
package stats

import (
	"math"
	"sort"

	"github.com/xu-lang/xubench/internal/models"
)

// Summarize reduces a sequence of same-case durations into a SummaryStat.
// Empty input yields the NaN sentinel in every field; callers must treat
// that as "no data", never as an error.
//
// P95 is nearest-rank: the element at index floor(0.95*(n-1)) of the
// ascending sort. This exact tie-break is shared with the other harness
// implementations, so it must not be replaced with interpolation.
func Summarize(values []float64) models.SummaryStat {
	if len(values) == 0 {
		nan := math.NaN()
		return models.SummaryStat{Min: nan, Median: nan, Mean: nan, P95: nan, Max: nan, Stdev: nan}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	p95Index := int(math.Floor(0.95 * float64(n-1)))
	if p95Index < 0 {
		p95Index = 0
	}

	return models.SummaryStat{
		Min:    sorted[0],
		Median: median(sorted),
		Mean:   mean(sorted),
		P95:    sorted[p95Index],
		Max:    sorted[n-1],
		Stdev:  stdev(sorted),
	}
}

// Jitter computes (max - min) / median for a case's duration stats. The
// second return is false when the ratio is undefined: a non-positive or
// non-finite median, or non-finite min/max.
func Jitter(s models.SummaryStat) (float64, bool) {
	if !isFinite(s.Min) || !isFinite(s.Median) || !isFinite(s.Max) || s.Median <= 0 {
		return 0, false
	}
	return (s.Max - s.Min) / s.Median, true
}

// Winner picks the runtime with the lowest finite median. Ties resolve to
// the first-enumerated runtime; ok is false when no runtime has a finite
// median.
func Winner(order []models.RuntimeID, medians map[models.RuntimeID]float64) (models.RuntimeID, bool) {
	var winner models.RuntimeID
	best := math.Inf(1)
	found := false
	for _, rt := range order {
		m, present := medians[rt]
		if !present || !isFinite(m) {
			continue
		}
		if m < best {
			best = m
			winner = rt
			found = true
		}
	}
	return winner, found
}

// OpsPerSec converts a per-scale median duration in milliseconds into an
// operations-per-second rate. Returns NaN when the median is missing or
// non-positive.
func OpsPerSec(scale uint, medianMs float64) float64 {
	if !isFinite(medianMs) || medianMs <= 0 {
		return math.NaN()
	}
	return float64(scale) / medianMs * 1000.0
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2.0
}

// stdev is the population standard deviation; a single observation gives
// 0, never NaN.
func stdev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
