package main

import (
	"github.com/spf13/cobra"
)

func newRunCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Scan the staged files of the current commit",
		Long: `Scan exactly what is staged for the next commit and reject it when secrets
are found. This is what the installed pre-commit hook runs.

Examples:
  # Check what you are about to commit
  leakgate run

  # Same, with diagnostics
  leakgate run --log-level debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, flags, true)
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			orch, err := a.newOrchestrator(nil)
			if err != nil {
				return err
			}
			return fromStatus(orch.RunStaged(cmd.Context()))
		},
	}
}
