package main

import (
	"fmt"
	"os"

	"github.com/xu-lang/xubench/internal/orchestration"
)

// newProgressPrinter returns a listener that writes [Progress] lines to
// stderr, keeping stdout clean for machine-readable output. Verbose mode
// adds per-repetition lines; otherwise only scale boundaries and errors
// are shown.
func newProgressPrinter(verbose bool) orchestration.ProgressListener {
	return func(ev orchestration.ProgressEvent) {
		switch ev.EventType {
		case orchestration.EventSweepStart:
			fmt.Fprintf(os.Stderr, "[Progress] sweep starting: %d scale(s), %d run(s) each\n",
				ev.TotalScales, ev.TotalRuns)
		case orchestration.EventScaleStart:
			fmt.Fprintf(os.Stderr, "[Progress] scale %d: %d run(s)\n", ev.Scale, ev.TotalRuns)
		case orchestration.EventRunStart:
			if verbose {
				fmt.Fprintf(os.Stderr, "[Progress] scale %d run %d/%d\n", ev.Scale, ev.RunNum, ev.TotalRuns)
			}
		case orchestration.EventRunComplete:
			if verbose {
				fmt.Fprintf(os.Stderr, "[Progress] scale %d run %d/%d done in %dms\n",
					ev.Scale, ev.RunNum, ev.TotalRuns, ev.DurationMs)
			}
		case orchestration.EventRuntimeFallback:
			fmt.Fprintf(os.Stderr, "[Progress] scale %d: empty section for %s, re-invoking directly\n",
				ev.Scale, ev.Runtime)
		case orchestration.EventInvokeError:
			fmt.Fprintf(os.Stderr, "[Progress] scale %d run %d failed: %s\n", ev.Scale, ev.RunNum, ev.Message)
		case orchestration.EventScaleComplete:
			fmt.Fprintf(os.Stderr, "[Progress] scale %d complete\n", ev.Scale)
		case orchestration.EventSweepComplete:
			fmt.Fprintf(os.Stderr, "[Progress] sweep complete in %dms\n", ev.DurationMs)
		}
	}
}
