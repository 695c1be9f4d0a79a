package models

import (
	"math"
	"sort"
	"time"
)

// CaseStats is the full aggregation for one (case, runtime) cell of a
// sweep: duration stats always, memory stats when the benchmark reported
// rss_bytes.
type CaseStats struct {
	Duration SummaryStat
	MemoryMB SummaryStat
}

// ScaleStats carries the complete per-case, per-runtime statistics for one
// scale. It feeds the report renderer; only medians survive into the
// persisted Snapshot.
type ScaleStats struct {
	Scale uint
	Cases map[CaseID]map[RuntimeID]CaseStats
}

// SweepResult is the in-memory outcome of one orchestration run before it
// is reduced to a Snapshot.
type SweepResult struct {
	SuiteName       string
	Scales          []uint
	Runs            int
	GeneratedAt     time.Time
	Runtimes        []RuntimeID
	RuntimeVersions map[RuntimeID]string
	Results         []ScaleStats
}

// CaseMedians is the persisted per-case slice of a ScaleResult: the median
// duration per runtime, plus median resident memory when available.
// Runtimes with no data for the case are simply absent from the maps.
type CaseMedians struct {
	Medians  map[RuntimeID]float64 `json:"medians"`
	MemoryMB map[RuntimeID]float64 `json:"memory_mb,omitempty"`
}

// ScaleResult is the persisted slice of a Snapshot for one scale.
type ScaleResult struct {
	Scale uint                   `json:"scale"`
	Cases map[CaseID]CaseMedians `json:"cases"`
}

// Snapshot is one immutable, timestamped full sweep of results — the unit
// of historical comparison. Once written to the history store a snapshot
// is never mutated or deleted by the pipeline.
type Snapshot struct {
	SuiteName   string        `json:"suite,omitempty"`
	Scales      []uint        `json:"scales"`
	Runs        int           `json:"runs"`
	GeneratedAt time.Time     `json:"generated_at"`
	Results     []ScaleResult `json:"results"`
}

// Stamp returns the snapshot identity used in history filenames. The
// format sorts lexicographically in generation order.
func (s *Snapshot) Stamp() string {
	return s.GeneratedAt.UTC().Format("20060102T150405")
}

// Result returns the ScaleResult for the given scale, or nil.
func (s *Snapshot) Result(scale uint) *ScaleResult {
	for i := range s.Results {
		if s.Results[i].Scale == scale {
			return &s.Results[i]
		}
	}
	return nil
}

// ScaleSet returns the set of scales present in the snapshot's results.
func (s *Snapshot) ScaleSet() map[uint]bool {
	set := make(map[uint]bool, len(s.Results))
	for _, r := range s.Results {
		set[r.Scale] = true
	}
	return set
}

// CommonScales returns the ascending intersection of scales present in
// both snapshots. Scales present in only one snapshot are ignored by
// consumers, not flagged.
func CommonScales(a, b *Snapshot) []uint {
	bset := b.ScaleSet()
	var common []uint
	for scale := range a.ScaleSet() {
		if bset[scale] {
			common = append(common, scale)
		}
	}
	sort.Slice(common, func(i, j int) bool { return common[i] < common[j] })
	return common
}

// BuildSnapshot reduces a SweepResult to its persisted form, keeping only
// finite medians. NaN medians (no data) are dropped rather than written,
// so snapshot JSON stays standard-conforming.
func BuildSnapshot(sweep *SweepResult) *Snapshot {
	snap := &Snapshot{
		SuiteName:   sweep.SuiteName,
		Scales:      sweep.Scales,
		Runs:        sweep.Runs,
		GeneratedAt: sweep.GeneratedAt,
	}
	for _, sr := range sweep.Results {
		out := ScaleResult{Scale: sr.Scale, Cases: make(map[CaseID]CaseMedians)}
		for caseID, byRuntime := range sr.Cases {
			cm := CaseMedians{Medians: make(map[RuntimeID]float64)}
			for rt, stats := range byRuntime {
				if !math.IsNaN(stats.Duration.Median) {
					cm.Medians[rt] = stats.Duration.Median
				}
				if !math.IsNaN(stats.MemoryMB.Median) {
					if cm.MemoryMB == nil {
						cm.MemoryMB = make(map[RuntimeID]float64)
					}
					cm.MemoryMB[rt] = stats.MemoryMB.Median
				}
			}
			out.Cases[caseID] = cm
		}
		snap.Results = append(snap.Results, out)
	}
	return snap
}
