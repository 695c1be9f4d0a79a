package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/xu-lang/xubench/internal/orchestration"
)

// ProbeTable renders probe outcomes as a markdown table of per-operation
// cost. The first probe is the comparison baseline; the ratio column
// reads "how many times the baseline's cost" each runtime pays.
func ProbeTable(outcomes []orchestration.ProbeOutcome) string {
	var b strings.Builder
	b.WriteString("# CLI probe results\n\n")
	if len(outcomes) == 0 {
		b.WriteString("No probes configured.\n")
		return b.String()
	}

	baseline := outcomes[0].MedianPerNs

	rows := [][]string{{"Probe", "Iters", "µs/op (median)", "Stdev µs", "vs " + string(outcomes[0].ID)}}
	for _, o := range outcomes {
		rows = append(rows, []string{
			string(o.ID),
			printer.Sprintf("%d", o.Iters),
			fmtMicros(o.MedianPerNs),
			fmtMicros(o.StdevPerNs),
			fmtRatio(o.MedianPerNs, baseline),
		})
	}
	b.WriteString(renderTable(rows))
	return b.String()
}

func fmtMicros(perNs float64) string {
	if math.IsNaN(perNs) || math.IsInf(perNs, 0) {
		return noData
	}
	return fmt.Sprintf("%.3f", perNs/1000.0)
}

func fmtRatio(perNs, baseline float64) string {
	if math.IsNaN(perNs) || math.IsNaN(baseline) || baseline <= 0 {
		return noData
	}
	return fmt.Sprintf("%.2fx", perNs/baseline)
}
