package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xu-lang/xubench/internal/config"
	"github.com/xu-lang/xubench/internal/invoke"
	"github.com/xu-lang/xubench/internal/orchestration"
	"github.com/xu-lang/xubench/internal/report"
)

func newProbeCommand() *cobra.Command {
	var (
		suitePath string
		rounds    int
		outPath   string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Run the single-shot CLI probes",
		Long: `Runs each configured CLI probe several rounds and prints a per-op
cost table. Probe binaries must end their output with one
"lang=... iters=... total_ns=... per_ns=..." line; anything else is a
hard failure.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := loadSuite(suitePath)
			if err != nil {
				return err
			}
			if len(suite.Probes) == 0 {
				return fmt.Errorf("suite %s configures no probes", suitePath)
			}

			cfg := config.New(suite, config.FromEnv(), config.WithVerbose(verbose))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, cfg.TotalTimeout())
			defer cancel()

			runner := orchestration.NewRunner(cfg, invoke.NewRunner(invoke.WithStderrTee(verbose)))
			runner.OnProgress(newProgressPrinter(verbose))

			outcomes, err := runner.RunProbes(ctx, rounds)
			if err != nil {
				return err
			}

			table := report.ProbeTable(outcomes)
			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(table), 0644); err != nil {
					return fmt.Errorf("writing probe table: %w", err)
				}
				fmt.Printf("probe table: %s\n", outPath)
				return nil
			}
			fmt.Print(table)
			return nil
		},
	}

	cmd.Flags().StringVarP(&suitePath, "suite", "s", "xubench.yaml", "Suite file")
	cmd.Flags().IntVar(&rounds, "rounds", orchestration.DefaultProbeRounds, "Rounds per probe")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the table to a file instead of stdout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Per-round progress and live probe stderr")

	return cmd
}
