package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/leakgate/internal/hooks"
)

func newHookCmd(flags *globalFlags) *cobra.Command {
	hookCmd := &cobra.Command{
		Use:   "hook",
		Short: "Manage the git pre-commit hook",
	}

	var force bool
	var command string
	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Install the pre-commit hook in this repository",
		Long: `Install a pre-commit hook that runs "leakgate run". An existing hook that
leakgate did not write is left alone unless --force is given.

Examples:
  leakgate hook install
  leakgate hook install --command /usr/local/bin/leakgate --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, a, err := installer(cmd, flags, command)
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			if err := inst.Install(force); err != nil {
				return err
			}
			fmt.Fprint(a.out, a.render.Confirm("pre-commit hook installed at "+inst.Path()))
			return nil
		},
	}
	installCmd.Flags().BoolVarP(&force, "force", "f", false, "replace a pre-commit hook leakgate did not write")
	installCmd.Flags().StringVar(&command, "command", "leakgate", "leakgate executable the hook runs")

	var uninstallForce bool
	uninstallCmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the pre-commit hook from this repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, a, err := installer(cmd, flags, "")
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			if err := inst.Uninstall(uninstallForce); err != nil {
				return err
			}
			fmt.Fprint(a.out, a.render.Confirm("pre-commit hook removed"))
			return nil
		},
	}
	uninstallCmd.Flags().BoolVarP(&uninstallForce, "force", "f", false, "remove a pre-commit hook leakgate did not write")

	hookCmd.AddCommand(installCmd, uninstallCmd)
	return hookCmd
}

func installer(cmd *cobra.Command, flags *globalFlags, command string) (hooks.Installer, *app, error) {
	a, err := loadApp(cmd, flags, true)
	if err != nil {
		return hooks.Installer{}, nil, err
	}
	dir, err := a.repo.HooksDir()
	if err != nil {
		return hooks.Installer{}, nil, err
	}
	return hooks.Installer{Dir: dir, Command: command}, a, nil
}
