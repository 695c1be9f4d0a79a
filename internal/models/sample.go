package models

import "math"

// Sample is one timed execution of a case in a runtime at a scale.
// Samples are immutable once produced; they live only long enough to be
// aggregated into SummaryStats and are never persisted individually.
type Sample struct {
	Runtime    RuntimeID `json:"runtime"`
	Case       CaseID    `json:"case"`
	Scale      uint      `json:"scale"`
	DurationMs float64   `json:"duration_ms"`
	// MemoryMB is the resident-set peak in megabytes, NaN when the
	// benchmark did not report rss_bytes.
	MemoryMB float64 `json:"memory_mb"`
}

// HasMemory reports whether the sample carried a resident-memory reading.
func (s Sample) HasMemory() bool {
	return !math.IsNaN(s.MemoryMB)
}

// SummaryStat is the reduction of one or more same-(runtime, case, scale)
// duration samples. An empty input produces the NaN sentinel in every
// field; callers treat that as "no data", not an error.
type SummaryStat struct {
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Mean   float64 `json:"mean"`
	P95    float64 `json:"p95"`
	Max    float64 `json:"max"`
	Stdev  float64 `json:"stdev"`
}

// IsZeroData reports whether the stat is the empty-input sentinel.
func (s SummaryStat) IsZeroData() bool {
	return math.IsNaN(s.Median)
}

// ProbeSample is the result of one single-shot CLI probe invocation,
// parsed from the strict `lang=... iters=... total_ns=... per_ns=...`
// final output line.
type ProbeSample struct {
	Lang    RuntimeID `json:"lang"`
	Iters   uint64    `json:"iters"`
	TotalNs uint64    `json:"total_ns"`
	PerNs   uint64    `json:"per_ns"`
}

// RegressionFinding records one tracked case whose median rose past the
// gate threshold between the two newest snapshots. Findings are reported,
// never persisted.
type RegressionFinding struct {
	Scale    uint      `json:"scale"`
	Case     CaseID    `json:"case"`
	Runtime  RuntimeID `json:"runtime"`
	DeltaPct float64   `json:"delta_pct"`
}
