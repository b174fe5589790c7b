package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/leakgate/internal/config"
	"github.com/fyrsmithlabs/leakgate/internal/gate"
	"github.com/fyrsmithlabs/leakgate/internal/logging"
	"github.com/fyrsmithlabs/leakgate/internal/metrics"
	"github.com/fyrsmithlabs/leakgate/internal/report"
	"github.com/fyrsmithlabs/leakgate/internal/scan"
	"github.com/fyrsmithlabs/leakgate/internal/staging"
)

// Options wires an Orchestrator. Scanner is required; everything else has
// a usable default.
type Options struct {
	Store     gate.ConfigStore // per-repository switch; nil means always enabled
	GateKey   string           // defaults to config.DefaultGateKey
	Scanner   scan.Scanner
	Simulator scan.Scanner     // consulted only under config.FallbackSimulate
	Fallback  string           // config.FallbackError (default) or config.FallbackSimulate
	Staged    staging.Provider // required by RunStaged
	Renderer  *report.Renderer
	Out       io.Writer // report destination, defaults to os.Stdout

	Metrics     *metrics.Recorder
	MetricsPath string          // textfile written after each run, empty disables
	Logger      *logging.Logger // nil keeps the logger carried by ctx
}

// Orchestrator runs the gate.
type Orchestrator struct {
	opts Options
}

// New creates an Orchestrator.
func New(opts Options) *Orchestrator {
	if opts.GateKey == "" {
		opts.GateKey = config.DefaultGateKey
	}
	if opts.Fallback == "" {
		opts.Fallback = config.FallbackError
	}
	if opts.Renderer == nil {
		opts.Renderer = report.New(nil)
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Orchestrator{opts: opts}
}

// run carries what one invocation learned, for metrics.
type run struct {
	started time.Time
	outcome *scan.Outcome
	verdict *gate.Verdict
	files   int
}

// Run scans root and renders the verdict. It returns StatusAllowed without
// scanning when the gate is disabled for the repository.
func (o *Orchestrator) Run(ctx context.Context, root string) (Status, error) {
	ctx = o.begin(ctx, root)
	r := &run{started: time.Now(), files: -1}

	if !o.enabled(ctx) {
		return o.finish(ctx, r, StatusAllowed, nil)
	}
	status, err := o.scan(ctx, r, root)
	return o.finish(ctx, r, status, err)
}

// RunStaged scans the staged contents of the repository. Staged blobs are
// copied into a private temp directory that is removed before returning.
func (o *Orchestrator) RunStaged(ctx context.Context) (Status, error) {
	ctx = o.begin(ctx, "")
	r := &run{started: time.Now()}
	log := logging.FromContext(ctx)

	if !o.enabled(ctx) {
		return o.finish(ctx, r, StatusAllowed, nil)
	}
	if o.opts.Staged == nil {
		return o.finish(ctx, r, StatusError, errors.New("no staged file provider configured"))
	}

	dir, err := os.MkdirTemp("", "leakgate-staged-")
	if err != nil {
		return o.finish(ctx, r, StatusError, fmt.Errorf("creating staging directory: %w", err))
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Warn(ctx, "staging directory not removed", zap.String("dir", dir), zap.Error(err))
		}
	}()

	res, err := staging.Materialize(ctx, o.opts.Staged, dir)
	if err != nil {
		return o.finish(ctx, r, StatusError, fmt.Errorf("materializing staged files: %w", err))
	}
	r.files = len(res.Written)
	log.Debug(ctx, "staged files", zap.Strings("files", res.Written), zap.Strings("skipped", res.Skipped))

	if len(res.Written) == 0 {
		log.Info(ctx, "nothing staged to scan")
		o.write(ctx, o.opts.Renderer.Render(gate.Verdict{Decision: gate.Allowed}, dir))
		return o.finish(ctx, r, StatusAllowed, nil)
	}

	status, err := o.scan(ctx, r, dir)
	return o.finish(ctx, r, status, err)
}

func (o *Orchestrator) begin(ctx context.Context, root string) context.Context {
	ctx = logging.WithRunID(ctx, uuid.NewString())
	if root != "" {
		ctx = logging.WithRepo(ctx, root)
	}
	if o.opts.Logger != nil {
		ctx = logging.WithLogger(ctx, o.opts.Logger)
	}
	return ctx
}

func (o *Orchestrator) enabled(ctx context.Context) bool {
	if gate.Resolve(ctx, o.opts.Store, o.opts.GateKey) {
		return true
	}
	logging.FromContext(ctx).Info(ctx, "gate disabled, skipping scan", zap.String("key", o.opts.GateKey))
	o.write(ctx, o.opts.Renderer.Confirm(
		fmt.Sprintf("Secret scan disabled for this repository (%s=false). Commit allowed.", o.opts.GateKey)))
	return false
}

func (o *Orchestrator) scan(ctx context.Context, r *run, root string) (Status, error) {
	log := logging.FromContext(ctx)
	if o.opts.Scanner == nil {
		return StatusError, errors.New("no scanner configured")
	}

	outcome, err := o.opts.Scanner.Scan(ctx, root)
	if err != nil {
		return StatusError, fmt.Errorf("scanning %s: %w", root, err)
	}
	r.outcome = &outcome

	if outcome.Signal == scan.Unavailable {
		if o.opts.Fallback != config.FallbackSimulate || o.opts.Simulator == nil {
			log.Error(ctx, "secret scan engine unavailable",
				zap.String("engine", outcome.Engine), zap.String("reason", string(outcome.Reason)))
			o.write(ctx, o.opts.Renderer.Notice(fmt.Sprintf(
				"Secret scan engine unavailable (%s). Install gitleaks or set engine.mode to embedded. Commit rejected.",
				outcome.Reason)))
			return StatusUnavailable, fmt.Errorf("%w: %s", ErrEngineUnavailable, outcome.Reason)
		}

		log.Warn(ctx, "secret scan engine unavailable, simulating",
			zap.String("engine", outcome.Engine), zap.String("reason", string(outcome.Reason)))
		o.write(ctx, o.opts.Renderer.Notice(fmt.Sprintf(
			"Simulated scan: gitleaks is unavailable (%s).", outcome.Reason)))
		outcome, err = o.opts.Simulator.Scan(ctx, root)
		if err != nil {
			return StatusError, fmt.Errorf("simulating scan: %w", err)
		}
		r.outcome = &outcome
	}

	verdict := gate.Decide(outcome)
	r.verdict = &verdict
	log.Info(ctx, "scan decided",
		zap.String("engine", outcome.Engine),
		zap.Stringer("signal", outcome.Signal),
		zap.Int("exit_code", outcome.ExitCode),
		zap.Int("findings", len(outcome.Findings)),
		zap.Stringer("decision", verdict.Decision))

	o.write(ctx, o.opts.Renderer.Render(verdict, root))
	if verdict.Blocked() {
		return StatusBlocked, nil
	}
	return StatusAllowed, nil
}

// write prints report text. A failed write is logged; the status stands.
func (o *Orchestrator) write(ctx context.Context, text string) {
	if _, err := io.WriteString(o.opts.Out, text); err != nil {
		logging.FromContext(ctx).Warn(ctx, "report not written", zap.Error(err))
	}
}

func (o *Orchestrator) finish(ctx context.Context, r *run, status Status, err error) (Status, error) {
	if err != nil && status != StatusUnavailable {
		logging.FromContext(ctx).Error(ctx, "gate run failed", zap.Error(err))
	}
	if o.opts.Metrics == nil {
		return status, err
	}

	m := metrics.Run{
		Status:   int(status),
		Blocked:  status != StatusAllowed,
		Files:    r.files,
		Duration: time.Since(r.started),
	}
	if r.outcome != nil {
		m.Engine = r.outcome.Engine
		m.Signal = r.outcome.Signal.String()
	}
	if r.verdict != nil {
		m.Rules = make(map[string]int)
		for _, f := range r.verdict.Findings {
			m.Rules[f.RuleID]++
		}
	}
	o.opts.Metrics.Observe(m)
	if werr := o.opts.Metrics.WriteTextfile(o.opts.MetricsPath); werr != nil {
		logging.FromContext(ctx).Warn(ctx, "metrics not written", zap.Error(werr))
	}
	return status, err
}
