package engine

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	gitleaksConfig "github.com/zricethezav/gitleaks/v8/config"
	"github.com/zricethezav/gitleaks/v8/detect"
	"github.com/zricethezav/gitleaks/v8/report"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/leakgate/internal/logging"
	"github.com/fyrsmithlabs/leakgate/internal/scan"
)

// EmbeddedOptions configures an EmbeddedScanner.
type EmbeddedOptions struct {
	ConfigPath string     // custom gitleaks rules TOML; empty uses the gitleaks defaults
	Allowlist  *Allowlist // extra exclusions, may be nil
	MaxFileMB  int        // files larger than this are skipped; <= 0 means 10
}

// EmbeddedScanner runs the gitleaks detector in process.
type EmbeddedScanner struct {
	cfg       gitleaksConfig.Config
	paths     []*regexp.Regexp
	maxBytes  int64
	maxFileMB int
}

// NewEmbeddedScanner loads the gitleaks rule set once. Each Scan builds a
// fresh detector from it.
func NewEmbeddedScanner(opts EmbeddedOptions) (*EmbeddedScanner, error) {
	cfg, err := loadGitleaksConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	opts.Allowlist.apply(&cfg)

	maxMB := opts.MaxFileMB
	if maxMB <= 0 {
		maxMB = 10
	}
	return &EmbeddedScanner{
		cfg:       cfg,
		paths:     opts.Allowlist.pathMatchers(),
		maxBytes:  int64(maxMB) << 20,
		maxFileMB: maxMB,
	}, nil
}

// loadGitleaksConfig reads a gitleaks TOML rule set through viper, the way
// gitleaks itself does. An empty path loads the bundled default rules.
func loadGitleaksConfig(path string) (gitleaksConfig.Config, error) {
	v := viper.New()
	if path == "" {
		v.SetConfigType("toml")
		if err := v.ReadConfig(strings.NewReader(gitleaksConfig.DefaultConfig)); err != nil {
			return gitleaksConfig.Config{}, fmt.Errorf("%w: default rules: %v", ErrGitleaksConfig, err)
		}
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return gitleaksConfig.Config{}, fmt.Errorf("%w: reading %s: %v", ErrGitleaksConfig, path, err)
		}
	}

	var vc gitleaksConfig.ViperConfig
	if err := v.Unmarshal(&vc); err != nil {
		return gitleaksConfig.Config{}, fmt.Errorf("%w: decoding %s: %v", ErrGitleaksConfig, describe(path), err)
	}
	cfg, err := vc.Translate()
	if err != nil {
		return gitleaksConfig.Config{}, fmt.Errorf("%w: translating %s: %v", ErrGitleaksConfig, describe(path), err)
	}
	if len(cfg.Rules) == 0 {
		return gitleaksConfig.Config{}, fmt.Errorf("%w: %s defines no rules", ErrGitleaksConfig, describe(path))
	}
	return cfg, nil
}

func describe(path string) string {
	if path == "" {
		return "default rules"
	}
	return path
}

// Scan walks root and runs the detector over every regular file. The .git
// directory and symlinks are skipped, as are files over the size cap and
// files matching an allowlisted path.
func (s *EmbeddedScanner) Scan(ctx context.Context, root string) (scan.Outcome, error) {
	log := logging.FromContext(ctx)
	detector := detect.NewDetector(s.cfg)
	detector.MaxTargetMegaBytes = s.maxFileMB

	var findings []scan.Finding
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if d.Name() == ".git" && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if s.allowlisted(filepath.ToSlash(rel)) {
			log.Debug(ctx, "skipping allowlisted path", zap.String("path", rel))
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() > s.maxBytes {
			log.Debug(ctx, "skipping file over size cap",
				zap.String("path", rel), zap.Int64("bytes", info.Size()))
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		findings = append(findings, stringFindings(detector.DetectString(string(content)), path)...)
		return nil
	})
	if err != nil {
		return scan.Outcome{}, fmt.Errorf("scanning %s: %w", root, err)
	}

	exitCode := 0
	if len(findings) > 0 {
		exitCode = 1
	}
	log.Debug(ctx, "embedded scan finished", zap.Int("findings", len(findings)))
	return scan.NewOutcome(EngineEmbedded, exitCode, findings), nil
}

// stringFindings converts DetectString results, which count lines from 0,
// to findings with 1-based lines.
func stringFindings(raw []report.Finding, file string) []scan.Finding {
	out := convertFindings(raw, file)
	for i := range out {
		if out[i].StartLine >= 0 {
			out[i].StartLine++
		}
	}
	return out
}

func (s *EmbeddedScanner) allowlisted(rel string) bool {
	for _, re := range s.paths {
		if re.MatchString(rel) {
			return true
		}
	}
	return false
}
