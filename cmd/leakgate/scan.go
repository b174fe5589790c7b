package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/leakgate/internal/engine"
	"github.com/fyrsmithlabs/leakgate/internal/scan"
)

func newScanCmd(flags *globalFlags) *cobra.Command {
	var simulate string
	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Scan a directory",
		Long: `Scan every file under a directory, without git history, and report as the
pre-commit hook would. The directory defaults to the current one.

--simulate replaces the engine with a fixed outcome: "block" reports one
Telegram bot token in config.py, "allow" reports nothing. It exists for
exercising hooks and CI without gitleaks.

Examples:
  # Scan a checkout
  leakgate scan ./service

  # Check the blocked path end to end without gitleaks
  leakgate scan --simulate block /tmp/empty`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving %s: %w", dir, err)
			}

			var s scan.Scanner
			switch simulate {
			case "":
			case "block":
				s = engine.Simulator{ExpectBlock: true}
			case "allow":
				s = engine.Simulator{ExpectBlock: false}
			default:
				return fmt.Errorf("--simulate must be block or allow, got %q", simulate)
			}

			if flags.repo == "." {
				flags.repo = abs
			}
			a, err := loadApp(cmd, flags, false)
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			orch, err := a.newOrchestrator(s)
			if err != nil {
				return err
			}
			return fromStatus(orch.Run(cmd.Context(), abs))
		},
	}
	cmd.Flags().StringVar(&simulate, "simulate", "", "replace the engine with a fixed outcome (block or allow)")
	return cmd
}
