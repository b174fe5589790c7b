package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/leakgate/internal/execx"
	"github.com/fyrsmithlabs/leakgate/internal/logging"
	"github.com/fyrsmithlabs/leakgate/internal/scan"
)

// DefaultTimeout bounds a gitleaks run when no timeout is configured.
const DefaultTimeout = 60 * time.Second

// maxStderrLog caps how much gitleaks stderr is attached to a log entry.
const maxStderrLog = 2048

// BinaryOptions configures a BinaryScanner.
type BinaryOptions struct {
	Locator Locator
	Runner  execx.Runner
	Timeout time.Duration
}

// BinaryScanner runs the gitleaks executable over a directory.
type BinaryScanner struct {
	locator Locator
	runner  execx.Runner
	timeout time.Duration
}

// NewBinaryScanner creates a scanner. A nil Runner runs real processes and
// a nil Locator searches $PATH only.
func NewBinaryScanner(opts BinaryOptions) *BinaryScanner {
	s := &BinaryScanner{
		locator: opts.Locator,
		runner:  opts.Runner,
		timeout: opts.Timeout,
	}
	if s.runner == nil {
		s.runner = execx.OSRunner{}
	}
	if s.locator == nil {
		s.locator = PathLocator{Runner: s.runner}
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	return s
}

// Scan runs gitleaks over root without git history. An engine that is
// missing, cannot start or overruns the timeout yields an Unavailable
// outcome and a nil error; errors are reserved for local failures such as
// an unusable temp directory or a cancelled ctx.
func (s *BinaryScanner) Scan(ctx context.Context, root string) (scan.Outcome, error) {
	log := logging.FromContext(ctx)

	bin, ok := s.locator.Locate(ctx)
	if !ok {
		log.Warn(ctx, "gitleaks is not installed")
		return scan.UnavailableOutcome(EngineBinary, scan.ReasonNotInstalled), nil
	}

	reportDir, err := os.MkdirTemp("", "leakgate-report-")
	if err != nil {
		return scan.Outcome{}, fmt.Errorf("creating report directory: %w", err)
	}
	defer os.RemoveAll(reportDir)
	reportPath := filepath.Join(reportDir, "report.json")

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	res, err := s.runner.Run(runCtx, bin, detectArgs(root, reportPath)...)
	elapsed := time.Since(start)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return scan.Outcome{}, fmt.Errorf("gitleaks scan: %w", ctx.Err())
		case errors.Is(err, context.DeadlineExceeded):
			log.Error(ctx, "gitleaks timed out",
				zap.Duration("timeout", s.timeout), zap.String("binary", bin))
			return scan.UnavailableOutcome(EngineBinary, scan.ReasonTimeout), nil
		default:
			log.Error(ctx, "gitleaks could not be started",
				zap.String("binary", bin), zap.Error(err))
			return scan.UnavailableOutcome(EngineBinary, scan.ReasonStartFailed), nil
		}
	}

	findings := readReport(ctx, reportPath)
	log.Debug(ctx, "gitleaks finished",
		zap.Int("exit_code", res.ExitCode),
		zap.Int("findings", len(findings)),
		zap.Duration("elapsed", elapsed))
	if res.ExitCode != 0 && len(findings) == 0 {
		log.Warn(ctx, "gitleaks exited nonzero without readable findings",
			zap.Int("exit_code", res.ExitCode),
			zap.ByteString("stderr", tail(res.Stderr, maxStderrLog)))
	}
	return scan.NewOutcome(EngineBinary, res.ExitCode, findings), nil
}

func detectArgs(root, reportPath string) []string {
	return []string{
		"detect",
		"--source", root,
		"--report-format", "json",
		"--report-path", reportPath,
		"--no-git",
		"--exit-code", "1",
		"--no-banner",
	}
}

func tail(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[len(b)-n:]
}
