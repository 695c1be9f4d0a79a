package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xu-lang/xubench/internal/history"
	"github.com/xu-lang/xubench/internal/report"
)

func newCompareCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "compare <old.json> <new.json>",
		Short: "Diff two snapshot files",
		Long: `Loads two snapshot files and prints a per-case Δ% table for every
scale they share. Unlike the gate, compare is informational only and
always exits 0 when both files load.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			old, err := history.Load(args[0])
			if err != nil {
				return err
			}
			latest, err := history.Load(args[1])
			if err != nil {
				return err
			}

			table := report.CompareTable(old, latest)
			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(table), 0644); err != nil {
					return fmt.Errorf("writing comparison: %w", err)
				}
				fmt.Printf("comparison: %s\n", outPath)
				return nil
			}
			fmt.Print(table)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the comparison to a file instead of stdout")

	return cmd
}
