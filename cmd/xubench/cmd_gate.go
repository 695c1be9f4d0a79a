package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xu-lang/xubench/internal/gate"
	"github.com/xu-lang/xubench/internal/history"
	"github.com/xu-lang/xubench/internal/models"
	"github.com/xu-lang/xubench/internal/report"
)

func newGateCommand() *cobra.Command {
	var (
		historyDir   string
		suitePath    string
		thresholdPct float64
		caseIDs      []string
	)

	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Compare the two newest snapshots and fail on regressions",
		Long: `Loads the two most recent snapshots from the history directory and
fails (exit code 1) when any tracked case's median rose past the
threshold. With fewer than two snapshots the gate is skipped, not
failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tracked, err := resolveTrackedCases(suitePath, caseIDs)
			if err != nil {
				return err
			}

			store := history.NewStore(historyDir)
			res, err := gate.Check(store, tracked, thresholdPct)
			if err != nil {
				return err
			}

			fmt.Print(report.GateText(res))
			if !res.Passed() {
				return &GateFailureError{
					Message: fmt.Sprintf("%d tracked case(s) regressed more than %.1f%%",
						len(res.Findings), res.ThresholdPct),
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&historyDir, "history", ".bench_history", "Snapshot history directory")
	cmd.Flags().StringVarP(&suitePath, "suite", "s", "", "Suite file supplying the tracked cases")
	cmd.Flags().Float64Var(&thresholdPct, "threshold", gate.DefaultThresholdPct, "Regression threshold in percent")
	cmd.Flags().StringSliceVar(&caseIDs, "case", nil, "Tracked case (repeatable, overrides the suite)")

	return cmd
}

// resolveTrackedCases picks the gate's case list: explicit --case flags
// win, then the suite file's tracked_cases, then the built-in defaults.
func resolveTrackedCases(suitePath string, caseIDs []string) ([]models.CaseID, error) {
	if len(caseIDs) > 0 {
		tracked := make([]models.CaseID, len(caseIDs))
		for i, c := range caseIDs {
			tracked[i] = models.CaseID(c)
		}
		return tracked, nil
	}
	if suitePath != "" {
		if _, err := os.Stat(suitePath); err != nil {
			return nil, fmt.Errorf("suite file: %w", err)
		}
		suite, err := loadSuite(suitePath)
		if err != nil {
			return nil, err
		}
		return suite.TrackedCases, nil
	}
	return models.DefaultTrackedCases, nil
}
