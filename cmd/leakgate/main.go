// Package main implements the leakgate CLI, a pre-commit gate that rejects
// commits whose staged files contain secrets.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/leakgate/internal/engine"
	"github.com/fyrsmithlabs/leakgate/internal/orchestrator"
)

// version information
var version = "dev"

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit status.
func execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := root.ExecuteContext(ctx)
	var st *statusError
	if err != nil && !(errors.As(err, &st) && st.err == nil) {
		fmt.Fprintf(stderr, "leakgate: %v\n", err)
	}
	return exitCode(err)
}

// statusError carries a gate status out of a command.
type statusError struct {
	status orchestrator.Status
	err    error
}

func (e *statusError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return "commit " + e.status.String()
}

func (e *statusError) Unwrap() error { return e.err }

// fromStatus turns a gate result into a command error.
func fromStatus(status orchestrator.Status, err error) error {
	if status == orchestrator.StatusAllowed && err == nil {
		return nil
	}
	return &statusError{status: status, err: err}
}

// exitCode maps a command error to an exit status: 0 allowed, 1 blocked,
// 2 engine unavailable, 3 anything else.
func exitCode(err error) int {
	if err == nil {
		return int(orchestrator.StatusAllowed)
	}
	var st *statusError
	if errors.As(err, &st) {
		return int(st.status)
	}
	if errors.Is(err, engine.ErrEngineUnavailable) {
		return int(orchestrator.StatusUnavailable)
	}
	return int(orchestrator.StatusError)
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	repo       string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:   "leakgate",
		Short: "Reject commits that stage secrets",
		Long: `leakgate scans the staged contents of a commit with gitleaks and rejects
the commit when secrets are found.

Install it as a pre-commit hook with "leakgate hook install". Turn it off for
one repository with "leakgate disable" (git config hooks.gitleaks.enable false).

Exit status: 0 allowed, 1 blocked, 2 scan engine unavailable, 3 error.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default ~/.config/leakgate/config.yaml, then .leakgate.yaml in the repository)")
	rootCmd.PersistentFlags().StringVar(&flags.repo, "repo", ".", "path inside the git repository")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level override (trace, debug, info, warn, error)")

	rootCmd.AddCommand(newRunCmd(flags))
	rootCmd.AddCommand(newScanCmd(flags))
	rootCmd.AddCommand(newEnableCmd(flags), newDisableCmd(flags), newStatusCmd(flags))
	rootCmd.AddCommand(newHookCmd(flags))
	return rootCmd
}
