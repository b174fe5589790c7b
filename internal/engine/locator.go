package engine

import (
	"context"
	"os"

	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/leakgate/internal/execx"
	"github.com/fyrsmithlabs/leakgate/internal/logging"
)

// binaryName is the executable looked up on $PATH.
const binaryName = "gitleaks"

// Locator finds the gitleaks executable. ok is false when none is usable.
type Locator interface {
	Locate(ctx context.Context) (path string, ok bool)
}

// PathLocator checks, in order, an explicitly configured path, $PATH and a
// fixed install location such as ~/.local/bin/gitleaks.
type PathLocator struct {
	Explicit string
	Fallback string
	Runner   execx.Runner
}

func (l PathLocator) Locate(ctx context.Context) (string, bool) {
	log := logging.FromContext(ctx)

	if l.Explicit != "" {
		if p, ok := executable(l.Explicit); ok {
			return p, true
		}
		log.Warn(ctx, "configured gitleaks binary not usable, searching PATH", zap.String("path", l.Explicit))
	}

	runner := l.Runner
	if runner == nil {
		runner = execx.OSRunner{}
	}
	if p, err := runner.LookPath(binaryName); err == nil {
		return p, true
	}

	if l.Fallback != "" {
		if p, ok := executable(l.Fallback); ok {
			return p, true
		}
	}
	log.Debug(ctx, "gitleaks binary not found", zap.String("fallback", l.Fallback))
	return "", false
}

// executable expands a leading "~" and reports whether the result is a
// regular file with an execute bit set.
func executable(path string) (string, bool) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", false
	}
	info, err := os.Stat(expanded)
	if err != nil || !info.Mode().IsRegular() || info.Mode().Perm()&0o111 == 0 {
		return "", false
	}
	return expanded, true
}
