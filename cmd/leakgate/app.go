package main

import (
	"fmt"
	"io"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/leakgate/internal/config"
	"github.com/fyrsmithlabs/leakgate/internal/engine"
	"github.com/fyrsmithlabs/leakgate/internal/gitrepo"
	"github.com/fyrsmithlabs/leakgate/internal/logging"
	"github.com/fyrsmithlabs/leakgate/internal/metrics"
	"github.com/fyrsmithlabs/leakgate/internal/orchestrator"
	"github.com/fyrsmithlabs/leakgate/internal/report"
	"github.com/fyrsmithlabs/leakgate/internal/scan"
)

// app is everything a command needs, built from flags and config.
type app struct {
	cfg    *config.Config
	logger *logging.Logger
	repo   *gitrepo.Repo // nil when not inside a repository and none is required
	out    io.Writer
	render *report.Renderer
}

// loadApp opens the repository, loads config and builds the logger. When
// needRepo is false a missing repository is tolerated.
func loadApp(cmd *cobra.Command, flags *globalFlags, needRepo bool) (*app, error) {
	repo, err := gitrepo.Open(flags.repo)
	if err != nil {
		if needRepo {
			return nil, err
		}
		repo = nil
	}

	root := ""
	if repo != nil {
		root = repo.Root()
	}
	cfg, err := config.Load(flags.configPath, root)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	logger, err := newLogger(level, cfg.Logging.Format, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	return &app{
		cfg:    cfg,
		logger: logger,
		repo:   repo,
		out:    out,
		render: report.New(report.StyleFor(cfg.Report.Color, out)),
	}, nil
}

func newLogger(level, format string, w io.Writer) (*logging.Logger, error) {
	lvl, err := logging.LevelFromString(level)
	if err != nil {
		return nil, err
	}
	lc := logging.NewDefaultConfig()
	lc.Level = lvl
	lc.Format = format
	lc.Output = zapcore.AddSync(w)
	return logging.NewLogger(lc)
}

// scanner builds the engine selected by engine.mode.
func (a *app) scanner() (scan.Scanner, error) {
	ec := a.cfg.Engine
	if ec.Mode == config.ModeEmbedded {
		allowPath, err := expand(ec.Allowlist)
		if err != nil {
			return nil, err
		}
		allow, err := engine.LoadAllowlist(allowPath)
		if err != nil {
			return nil, err
		}
		rulesPath, err := expand(ec.GitleaksConfig)
		if err != nil {
			return nil, err
		}
		return engine.NewEmbeddedScanner(engine.EmbeddedOptions{
			ConfigPath: rulesPath,
			Allowlist:  allow,
			MaxFileMB:  ec.MaxFileMB,
		})
	}
	return engine.NewBinaryScanner(engine.BinaryOptions{
		Locator: engine.PathLocator{Explicit: ec.Binary, Fallback: ec.FallbackPath},
		Timeout: ec.Timeout.Duration(),
	}), nil
}

// newOrchestrator wires the gate around s. A nil s uses the configured
// engine.
func (a *app) newOrchestrator(s scan.Scanner) (*orchestrator.Orchestrator, error) {
	if s == nil {
		var err error
		if s, err = a.scanner(); err != nil {
			return nil, err
		}
	}
	opts := orchestrator.Options{
		GateKey:   a.cfg.Gate.Key,
		Scanner:   s,
		Simulator: engine.Simulator{ExpectBlock: a.cfg.Engine.SimulateBlock},
		Fallback:  a.cfg.Engine.Fallback,
		Renderer:  a.render,
		Out:       a.out,
		Logger:    a.logger,
	}
	if a.repo != nil {
		opts.Store = a.repo
		opts.Staged = a.repo
	}
	if a.cfg.Metrics.Textfile != "" {
		path, err := expand(a.cfg.Metrics.Textfile)
		if err != nil {
			return nil, err
		}
		opts.Metrics = metrics.NewRecorder()
		opts.MetricsPath = path
	}
	return orchestrator.New(opts), nil
}

func expand(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	p, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", path, err)
	}
	return p, nil
}
