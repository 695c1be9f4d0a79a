package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xu-lang/xubench/internal/wizard"
)

func newInitCommand() *cobra.Command {
	var (
		outPath string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Scaffold a suite file interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			initialName := ""
			if len(args) == 1 {
				initialName = args[0]
			}

			if !force {
				if _, err := os.Stat(outPath); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
				}
			}

			draft, err := wizard.RunSuiteWizard(cmd.InOrStdin(), cmd.OutOrStdout(), initialName)
			if err != nil {
				return err
			}

			content, err := wizard.GenerateSuiteYAML(draft)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, []byte(content), 0644); err != nil {
				return fmt.Errorf("writing suite file: %w", err)
			}

			fmt.Printf("created %s\n", outPath)
			fmt.Println("Next: make sure the sweep command prints one \"<id>:\" marker per runtime, then run `xubench report`.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "xubench.yaml", "Suite file to create")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing suite file")

	return cmd
}
