// Package report renders sweep results, snapshot comparisons, and probe
// outcomes as markdown (optionally HTML). Tables are padded to align in
// raw form; the files get read in terminals and diffs at least as often
// as through a renderer.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/xu-lang/xubench/internal/models"
	"github.com/xu-lang/xubench/internal/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

const noData = "-"

// Markdown renders a full sweep report: an environment header followed by
// one section per scale.
func Markdown(sweep *models.SweepResult) string {
	var b strings.Builder

	title := sweep.SuiteName
	if title == "" {
		title = "Benchmark"
	}
	fmt.Fprintf(&b, "# %s report\n\n", title)
	fmt.Fprintf(&b, "Generated: %s\n\n", sweep.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "Runs per scale: %d\n\n", sweep.Runs)

	if len(sweep.RuntimeVersions) > 0 {
		b.WriteString("## Environment\n\n")
		for _, rt := range sweep.Runtimes {
			if v, ok := sweep.RuntimeVersions[rt]; ok {
				fmt.Fprintf(&b, "- %s: %s\n", rt, v)
			}
		}
		b.WriteString("\n")
	}

	for _, sr := range sweep.Results {
		b.WriteString(renderScale(sweep, sr))
	}
	return b.String()
}

func renderScale(sweep *models.SweepResult, sr models.ScaleStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Scale %s\n\n", printer.Sprintf("%d", sr.Scale))

	header := []string{"Case"}
	for _, rt := range sweep.Runtimes {
		header = append(header,
			fmt.Sprintf("%s median ms", rt),
			fmt.Sprintf("%s p95 ms", rt),
			fmt.Sprintf("%s op/s", rt),
			fmt.Sprintf("%s jitter", rt),
		)
	}
	header = append(header, "Winner")

	rows := [][]string{header}
	hasMemory := false
	for _, caseID := range orderedCases(sr.Cases) {
		byRuntime := sr.Cases[caseID]
		row := []string{caseID.Label()}
		medians := make(map[models.RuntimeID]float64, len(byRuntime))
		for _, rt := range sweep.Runtimes {
			cs, ok := byRuntime[rt]
			if !ok {
				cs = noDataStats()
			}
			row = append(row,
				fmtMs(cs.Duration.Median),
				fmtMs(cs.Duration.P95),
				fmtOps(stats.OpsPerSec(sr.Scale, cs.Duration.Median)),
				fmtJitter(cs.Duration),
			)
			medians[rt] = cs.Duration.Median
			if !cs.MemoryMB.IsZeroData() {
				hasMemory = true
			}
		}
		if winner, ok := stats.Winner(sweep.Runtimes, medians); ok {
			row = append(row, string(winner))
		} else {
			row = append(row, noData)
		}
		rows = append(rows, row)
	}
	b.WriteString(renderTable(rows))
	b.WriteString("\n")

	if hasMemory {
		b.WriteString(renderMemory(sweep, sr))
	}
	return b.String()
}

func renderMemory(sweep *models.SweepResult, sr models.ScaleStats) string {
	header := []string{"Case"}
	for _, rt := range sweep.Runtimes {
		header = append(header, fmt.Sprintf("%s RSS MB", rt))
	}

	rows := [][]string{header}
	for _, caseID := range orderedCases(sr.Cases) {
		byRuntime := sr.Cases[caseID]
		row := []string{caseID.Label()}
		any := false
		for _, rt := range sweep.Runtimes {
			cell := noData
			if cs, ok := byRuntime[rt]; ok && !cs.MemoryMB.IsZeroData() {
				cell = fmt.Sprintf("%.1f", cs.MemoryMB.Median)
				any = true
			}
			row = append(row, cell)
		}
		if any {
			rows = append(rows, row)
		}
	}
	if len(rows) == 1 {
		return ""
	}

	var b strings.Builder
	b.WriteString("### Resident memory (median)\n\n")
	b.WriteString(renderTable(rows))
	b.WriteString("\n")
	return b.String()
}

// orderedCases returns the cases of a scale in canonical display order,
// with any cases unknown to this build appended alphabetically.
func orderedCases[V any](cases map[models.CaseID]V) []models.CaseID {
	out := make([]models.CaseID, 0, len(cases))
	seen := make(map[models.CaseID]bool, len(cases))
	for _, c := range models.CaseOrder {
		if _, ok := cases[c]; ok {
			out = append(out, c)
			seen[c] = true
		}
	}
	var extra []models.CaseID
	for c := range cases {
		if !seen[c] {
			extra = append(extra, c)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}

// renderTable renders rows (first row is the header) as an aligned
// markdown table.
func renderTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(row []string) {
		b.WriteString("|")
		for i, cell := range row {
			b.WriteString(" " + padRight(cell, widths[i]) + " |")
		}
		b.WriteString("\n")
	}

	writeRow(rows[0])
	b.WriteString("|")
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2) + "|")
	}
	b.WriteString("\n")
	for _, row := range rows[1:] {
		writeRow(row)
	}
	return b.String()
}

func padRight(s string, width int) string {
	if pad := width - runewidth.StringWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

// noDataStats is the sentinel for a runtime that never reported a case.
func noDataStats() models.CaseStats {
	nan := math.NaN()
	stat := models.SummaryStat{Min: nan, Median: nan, Mean: nan, P95: nan, Max: nan, Stdev: nan}
	return models.CaseStats{Duration: stat, MemoryMB: stat}
}

func fmtMs(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return noData
	}
	return fmt.Sprintf("%.2f", v)
}

func fmtOps(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return noData
	}
	return printer.Sprintf("%.0f", v)
}

func fmtJitter(s models.SummaryStat) string {
	j, ok := stats.Jitter(s)
	if !ok {
		return noData
	}
	return fmt.Sprintf("%.0f%%", j*100)
}
