package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xu-lang/xubench/internal/config"
	"github.com/xu-lang/xubench/internal/history"
	"github.com/xu-lang/xubench/internal/invoke"
	"github.com/xu-lang/xubench/internal/models"
	"github.com/xu-lang/xubench/internal/orchestration"
	"github.com/xu-lang/xubench/internal/report"
	"github.com/xu-lang/xubench/internal/validation"
)

type reportFlags struct {
	suitePath     string
	scales        []uint
	runs          int
	outPath       string
	htmlPath      string
	historyDir    string
	workDir       string
	compress      bool
	noMemoryLimit bool
	verbose       bool
}

func newReportCommand() *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the full sweep, persist a snapshot, and write the report",
		Long: `Runs every configured runtime across every scale, aggregates the
timings, appends a timestamped snapshot to the history directory, and
writes a markdown report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.suitePath, "suite", "s", "xubench.yaml", "Suite file")
	cmd.Flags().UintSliceVar(&flags.scales, "scales", nil, "Override the suite's scales")
	cmd.Flags().IntVar(&flags.runs, "runs", 0, "Override the measured repetitions per scale")
	cmd.Flags().StringVarP(&flags.outPath, "out", "o", "report.md", "Markdown report path")
	cmd.Flags().StringVar(&flags.htmlPath, "html", "", "Also write an HTML report to this path")
	cmd.Flags().StringVar(&flags.historyDir, "history", ".bench_history", "Snapshot history directory")
	cmd.Flags().StringVar(&flags.workDir, "work-dir", "", "Working directory for benchmark invocations")
	cmd.Flags().BoolVar(&flags.compress, "compress", false, "Write the snapshot gzip-compressed")
	cmd.Flags().BoolVar(&flags.noMemoryLimit, "no-memory-limit", false, "Skip installing the address-space ceiling")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Per-repetition progress and live benchmark stderr")

	return cmd
}

func runReport(ctx context.Context, flags reportFlags) error {
	suite, err := loadSuite(flags.suitePath)
	if err != nil {
		return err
	}

	knobs := config.FromEnv()
	cfg := config.New(suite, knobs,
		config.WithScales(flags.scales),
		config.WithRuns(flags.runs),
		config.WithVerbose(flags.verbose),
		config.WithMemoryGuard(!flags.noMemoryLimit),
		config.WithWorkDir(flags.workDir),
	)

	if cfg.MemoryGuard() {
		if err := invoke.InstallMemoryLimit(cfg.MaxMemoryMB()); err != nil {
			if !errors.Is(err, invoke.ErrResourceLimitUnavailable) {
				return err
			}
			// The ceiling is protection, not a prerequisite.
			slog.Warn("memory ceiling unavailable, continuing unguarded", "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.TotalTimeout())
	defer cancel()

	runner := orchestration.NewRunner(cfg, invoke.NewRunner(invoke.WithStderrTee(flags.verbose)))
	runner.OnProgress(newProgressPrinter(flags.verbose))

	sweep, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	store := history.NewStore(flags.historyDir, history.WithCompression(flags.compress))
	snapPath, err := store.Save(models.BuildSnapshot(sweep))
	if err != nil {
		return err
	}
	fmt.Printf("snapshot: %s\n", snapPath)

	markdown := report.Markdown(sweep)
	if err := os.WriteFile(flags.outPath, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	fmt.Printf("report: %s\n", flags.outPath)

	if flags.htmlPath != "" {
		html, err := report.HTML(markdown)
		if err != nil {
			return err
		}
		if err := os.WriteFile(flags.htmlPath, html, 0644); err != nil {
			return fmt.Errorf("writing HTML report: %w", err)
		}
		fmt.Printf("html report: %s\n", flags.htmlPath)
	}
	return nil
}

// loadSuite schema-validates the raw suite file before decoding it, so
// shape problems surface as a list of paths instead of a decode error.
func loadSuite(path string) (*models.Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite file: %w", err)
	}
	if errs := validation.ValidateSuiteBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("invalid suite %s:\n  %s", path, strings.Join(errs, "\n  "))
	}
	return models.LoadSuite(path)
}
