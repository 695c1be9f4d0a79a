package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xu-lang/xubench/internal/gate"
	"github.com/xu-lang/xubench/internal/models"
)

// CompareTable renders a markdown diff of two snapshots: one table per
// common scale, one row per case present in either, one Δ% column per
// runtime. Cells without data on both sides show "-".
func CompareTable(old, latest *models.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Snapshot comparison\n\n")
	fmt.Fprintf(&b, "Old: %s\n", old.Stamp())
	fmt.Fprintf(&b, "New: %s\n\n", latest.Stamp())

	scales := models.CommonScales(old, latest)
	if len(scales) == 0 {
		b.WriteString("No common scales between the two snapshots.\n")
		return b.String()
	}

	for _, scale := range scales {
		oldResult := old.Result(scale)
		newResult := latest.Result(scale)

		runtimes := runtimeUnion(oldResult, newResult)
		header := []string{"Case"}
		for _, rt := range runtimes {
			header = append(header, fmt.Sprintf("%s Δ%%", rt))
		}

		rows := [][]string{header}
		for _, caseID := range caseUnion(oldResult, newResult) {
			row := []string{caseID.Label()}
			for _, rt := range runtimes {
				row = append(row, deltaCell(oldResult, newResult, caseID, rt))
			}
			rows = append(rows, row)
		}

		fmt.Fprintf(&b, "## Scale %s\n\n", printer.Sprintf("%d", scale))
		b.WriteString(renderTable(rows))
		b.WriteString("\n")
	}
	return b.String()
}

func deltaCell(old, latest *models.ScaleResult, caseID models.CaseID, rt models.RuntimeID) string {
	oldMedian, okOld := old.Cases[caseID].Medians[rt]
	newMedian, okNew := latest.Cases[caseID].Medians[rt]
	if !okOld || !okNew {
		return noData
	}
	return fmt.Sprintf("%+.1f", gate.DeltaPct(oldMedian, newMedian))
}

// caseUnion returns the cases present in either scale result, in
// canonical order with unknown cases appended.
func caseUnion(a, b *models.ScaleResult) []models.CaseID {
	merged := make(map[models.CaseID]struct{})
	for c := range a.Cases {
		merged[c] = struct{}{}
	}
	for c := range b.Cases {
		merged[c] = struct{}{}
	}
	return orderedCases(merged)
}

// runtimeUnion returns every runtime appearing in either scale result's
// medians, sorted for stable columns. Snapshots do not record runtime
// enumeration order, so sorted order is the only reproducible choice.
func runtimeUnion(a, b *models.ScaleResult) []models.RuntimeID {
	merged := make(map[models.RuntimeID]struct{})
	for _, sr := range []*models.ScaleResult{a, b} {
		for _, cm := range sr.Cases {
			for rt := range cm.Medians {
				merged[rt] = struct{}{}
			}
		}
	}
	out := make([]models.RuntimeID, 0, len(merged))
	for rt := range merged {
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
