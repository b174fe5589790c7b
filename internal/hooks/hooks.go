package hooks

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// HookType names a git client hook.
type HookType string

// HookPreCommit runs before git records a commit; a nonzero exit aborts it.
const HookPreCommit HookType = "pre-commit"

// Marker identifies scripts written by this package.
const Marker = "# installed by leakgate"

var (
	// ErrHookExists indicates a hook not written by leakgate is in the way.
	ErrHookExists = errors.New("a different pre-commit hook is already installed")

	// ErrNotInstalled indicates there is no leakgate hook to remove.
	ErrNotInstalled = errors.New("leakgate pre-commit hook is not installed")
)

// Installer manages the pre-commit hook in one hooks directory.
type Installer struct {
	Dir     string // hooks directory, created on install
	Command string // leakgate executable invoked by the hook
}

// Path returns the hook file location.
func (i Installer) Path() string {
	return filepath.Join(i.Dir, string(HookPreCommit))
}

// Script renders the hook for command.
func Script(command string) string {
	if command == "" {
		command = "leakgate"
	}
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString(Marker + "\n")
	b.WriteString("# Rejects commits whose staged files contain secrets.\n")
	b.WriteString("# Skip it for one repository with: git config hooks.gitleaks.enable false\n")
	fmt.Fprintf(&b, "exec %s run\n", shellQuote(command))
	return b.String()
}

// Installed reports whether the hook file exists and was written by
// leakgate.
func (i Installer) Installed() (bool, error) {
	data, err := os.ReadFile(i.Path())
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading hook: %w", err)
	}
	return ours(data), nil
}

// Install writes the hook. A foreign hook is only replaced with force; a
// leakgate hook is always refreshed.
func (i Installer) Install(force bool) error {
	existing, err := os.ReadFile(i.Path())
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("reading hook: %w", err)
	case !ours(existing) && !force:
		return fmt.Errorf("%w: %s", ErrHookExists, i.Path())
	}

	if err := os.MkdirAll(i.Dir, 0o755); err != nil {
		return fmt.Errorf("creating hooks directory: %w", err)
	}
	tmp, err := os.CreateTemp(i.Dir, ".pre-commit-*")
	if err != nil {
		return fmt.Errorf("writing hook: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(Script(i.Command)); err != nil {
		tmp.Close()
		return fmt.Errorf("writing hook: %w", err)
	}
	if err := tmp.Chmod(0o755); err != nil {
		tmp.Close()
		return fmt.Errorf("writing hook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing hook: %w", err)
	}
	if err := os.Rename(tmp.Name(), i.Path()); err != nil {
		return fmt.Errorf("installing hook: %w", err)
	}
	return nil
}

// Uninstall removes a leakgate hook. A foreign hook is only removed with
// force.
func (i Installer) Uninstall(force bool) error {
	existing, err := os.ReadFile(i.Path())
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotInstalled
	}
	if err != nil {
		return fmt.Errorf("reading hook: %w", err)
	}
	if !ours(existing) && !force {
		return fmt.Errorf("%w: %s", ErrHookExists, i.Path())
	}
	if err := os.Remove(i.Path()); err != nil {
		return fmt.Errorf("removing hook: %w", err)
	}
	return nil
}

func ours(script []byte) bool {
	for _, line := range bytes.Split(script, []byte("\n")) {
		if string(bytes.TrimSpace(line)) == Marker {
			return true
		}
	}
	return false
}

// shellQuote single-quotes s unless it is made only of safe characters.
func shellQuote(s string) string {
	safe := true
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./:=+@%", r)) {
			safe = false
			break
		}
	}
	if safe && s != "" {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
