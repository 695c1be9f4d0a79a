package report

import (
	"fmt"
	"strings"

	"github.com/xu-lang/xubench/internal/gate"
)

// GateText renders a gate result as the short plain-text block the gate
// command prints. It stays line-oriented so CI logs grep cleanly.
func GateText(res gate.Result) string {
	var b strings.Builder
	if res.Skipped {
		fmt.Fprintf(&b, "gate skipped: %s\n", res.SkipReason)
		return b.String()
	}

	fmt.Fprintf(&b, "comparing %s -> %s (threshold %.1f%%)\n", res.OldStamp, res.NewStamp, res.ThresholdPct)
	if len(res.Findings) == 0 {
		b.WriteString("gate passed: no tracked case regressed\n")
		return b.String()
	}

	fmt.Fprintf(&b, "gate failed: %d regression(s)\n", len(res.Findings))
	for _, f := range res.Findings {
		fmt.Fprintf(&b, "- scale=%d case=%s Δ%% %s=%.1f\n", f.Scale, f.Case, f.Runtime, f.DeltaPct)
	}
	return b.String()
}
