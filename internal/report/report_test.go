package report

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xu-lang/xubench/internal/models"
	"github.com/xu-lang/xubench/internal/orchestration"
)

func testSweep() *models.SweepResult {
	nan := math.NaN()
	return &models.SweepResult{
		SuiteName:   "demo",
		Scales:      []uint{5000},
		Runs:        3,
		GeneratedAt: time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC),
		Runtimes:    []models.RuntimeID{"xu", "node"},
		RuntimeVersions: map[models.RuntimeID]string{
			"node": "v22.1.0",
		},
		Results: []models.ScaleStats{{
			Scale: 5000,
			Cases: map[models.CaseID]map[models.RuntimeID]models.CaseStats{
				models.CaseDict: {
					"xu": {
						Duration: models.SummaryStat{Min: 9, Median: 10, Mean: 10, P95: 12, Max: 12, Stdev: 1},
						MemoryMB: models.SummaryStat{Median: 64, Min: 64, Max: 64},
					},
					"node": {
						Duration: models.SummaryStat{Min: 4, Median: 5, Mean: 5, P95: 6, Max: 6, Stdev: 0.5},
						MemoryMB: models.SummaryStat{Min: nan, Median: nan, Mean: nan, P95: nan, Max: nan, Stdev: nan},
					},
				},
			},
		}},
	}
}

func TestMarkdown_Structure(t *testing.T) {
	md := Markdown(testSweep())

	assert.Contains(t, md, "# demo report")
	assert.Contains(t, md, "Generated: 2026-08-27 12:00:00 UTC")
	assert.Contains(t, md, "Runs per scale: 3")
	assert.Contains(t, md, "## Environment")
	assert.Contains(t, md, "- node: v22.1.0")
	assert.Contains(t, md, "## Scale 5,000")
	assert.Contains(t, md, "Dict insert/get (str)")
	assert.Contains(t, md, "10.00")
	assert.Contains(t, md, "5.00")
}

func TestMarkdown_WinnerColumn(t *testing.T) {
	md := Markdown(testSweep())

	dictLine := ""
	for _, line := range strings.Split(md, "\n") {
		if strings.Contains(line, "Dict insert/get") {
			dictLine = line
			break
		}
	}
	require.NotEmpty(t, dictLine)
	cells := strings.Split(dictLine, "|")
	assert.Equal(t, "node", strings.TrimSpace(cells[len(cells)-2]), "lowest median wins")
}

func TestMarkdown_MemoryTableOnlyWithData(t *testing.T) {
	sweep := testSweep()
	md := Markdown(sweep)
	assert.Contains(t, md, "### Resident memory (median)")
	assert.Contains(t, md, "64.0")

	// Strip memory data entirely: the section disappears.
	nan := math.NaN()
	for _, sr := range sweep.Results {
		for caseID, byRuntime := range sr.Cases {
			for rt, cs := range byRuntime {
				cs.MemoryMB = models.SummaryStat{Min: nan, Median: nan, Mean: nan, P95: nan, Max: nan, Stdev: nan}
				sr.Cases[caseID][rt] = cs
			}
		}
	}
	assert.NotContains(t, Markdown(sweep), "Resident memory")
}

func TestMarkdown_NoDataCellsAreDashes(t *testing.T) {
	sweep := testSweep()
	nan := math.NaN()
	sweep.Results[0].Cases[models.CaseLoop] = map[models.RuntimeID]models.CaseStats{
		"xu":   {Duration: models.SummaryStat{Min: nan, Median: nan, Mean: nan, P95: nan, Max: nan, Stdev: nan}},
		"node": {Duration: models.SummaryStat{Min: nan, Median: nan, Mean: nan, P95: nan, Max: nan, Stdev: nan}},
	}

	md := Markdown(sweep)
	loopLine := ""
	for _, line := range strings.Split(md, "\n") {
		if strings.Contains(line, "Loop overhead") {
			loopLine = line
			break
		}
	}
	require.NotEmpty(t, loopLine)
	assert.NotContains(t, loopLine, "NaN")
	assert.Contains(t, loopLine, "-")
}

func TestMarkdown_CanonicalCaseOrder(t *testing.T) {
	sweep := testSweep()
	stat := models.SummaryStat{Min: 1, Median: 1, Mean: 1, P95: 1, Max: 1}
	sweep.Results[0].Cases[models.CaseLoop] = map[models.RuntimeID]models.CaseStats{"xu": {Duration: stat}}
	sweep.Results[0].Cases["zz-custom"] = map[models.RuntimeID]models.CaseStats{"xu": {Duration: stat}}

	md := Markdown(sweep)
	loopIdx := strings.Index(md, "Loop overhead")
	dictIdx := strings.Index(md, "Dict insert/get")
	customIdx := strings.Index(md, "zz-custom")
	require.Positive(t, loopIdx)
	assert.Less(t, loopIdx, dictIdx, "loop precedes dict in canonical order")
	assert.Greater(t, customIdx, dictIdx, "unknown cases sort last")
}

func TestHTML_RendersTables(t *testing.T) {
	html, err := HTML(Markdown(testSweep()))
	require.NoError(t, err)

	s := string(html)
	assert.Contains(t, s, "<!DOCTYPE html>")
	assert.Contains(t, s, "<table>")
	assert.Contains(t, s, "Dict insert/get")
}

func TestProbeTable(t *testing.T) {
	outcomes := []orchestration.ProbeOutcome{
		{ID: "xu", Iters: 200000, MedianPerNs: 42000, StdevPerNs: 1000},
		{ID: "node", Iters: 200000, MedianPerNs: 21000, StdevPerNs: 500},
	}

	table := ProbeTable(outcomes)
	assert.Contains(t, table, "# CLI probe results")
	assert.Contains(t, table, "42.000")
	assert.Contains(t, table, "21.000")
	assert.Contains(t, table, "vs xu")
	assert.Contains(t, table, "1.00x")
	assert.Contains(t, table, "0.50x")
	assert.Contains(t, table, "200,000")
}

func TestProbeTable_Empty(t *testing.T) {
	assert.Contains(t, ProbeTable(nil), "No probes configured")
}
