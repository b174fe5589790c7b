package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/leakgate/internal/gate"
	"github.com/fyrsmithlabs/leakgate/internal/hooks"
)

func newEnableCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "enable",
		Short: "Turn the gate on for this repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return setGate(cmd, flags, "true")
		},
	}
}

func newDisableCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "disable",
		Short: "Turn the gate off for this repository",
		Long: `Turn the gate off for this repository by setting the gate key (default
hooks.gitleaks.enable) to false in the repository's git config. Commits are
then allowed without scanning until "leakgate enable".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return setGate(cmd, flags, "false")
		},
	}
}

func setGate(cmd *cobra.Command, flags *globalFlags, value string) error {
	a, err := loadApp(cmd, flags, true)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	if err := a.repo.Set(a.cfg.Gate.Key, value); err != nil {
		return err
	}
	state := "enabled"
	if !gate.IsEnabled(value, true) {
		state = "disabled"
	}
	fmt.Fprint(a.out, a.render.Confirm(fmt.Sprintf("Secret scan %s (%s=%s).", state, a.cfg.Gate.Key, value)))
	return nil
}

func newStatusCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the gate is on for this repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, flags, true)
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			value, ok, err := a.repo.Get(a.cfg.Gate.Key)
			if err != nil {
				return err
			}
			raw := value
			if !ok {
				raw = "(unset)"
			}
			state := "enabled"
			if !gate.IsEnabled(value, ok) {
				state = "disabled"
			}

			hookState := "not installed"
			if dir, err := a.repo.HooksDir(); err == nil {
				if installed, err := (hooks.Installer{Dir: dir}).Installed(); err == nil && installed {
					hookState = "installed"
				}
			}

			fmt.Fprintf(a.out, "%s = %s\n", a.cfg.Gate.Key, raw)
			fmt.Fprintf(a.out, "secret scan: %s\n", state)
			fmt.Fprintf(a.out, "pre-commit hook: %s\n", hookState)
			fmt.Fprintf(a.out, "engine: %s\n", a.cfg.Engine.Mode)
			return nil
		},
	}
}
