// Package config provides configuration loading for leakgate.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Engine modes.
const (
	ModeBinary   = "binary"
	ModeEmbedded = "embedded"
)

// Fallback policies applied when the engine cannot run.
const (
	FallbackError    = "error"
	FallbackSimulate = "simulate"
)

// Color modes for the report.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// DefaultGateKey is the git config key that turns the gate on or off.
const DefaultGateKey = "hooks.gitleaks.enable"

// Config is the complete leakgate configuration.
type Config struct {
	Engine  EngineConfig  `koanf:"engine"`
	Gate    GateConfig    `koanf:"gate"`
	Report  ReportConfig  `koanf:"report"`
	Metrics MetricsConfig `koanf:"metrics"`
	Logging LoggingConfig `koanf:"logging"`
}

// EngineConfig selects and tunes the detection engine.
type EngineConfig struct {
	Mode           string   `koanf:"mode"`            // binary or embedded
	Binary         string   `koanf:"binary"`          // explicit gitleaks path
	FallbackPath   string   `koanf:"fallback_path"`   // fixed install location, "~" allowed
	Timeout        Duration `koanf:"timeout"`         // child process budget
	Fallback       string   `koanf:"fallback"`        // error or simulate
	SimulateBlock  bool     `koanf:"simulate_block"`  // verdict the simulation reproduces
	GitleaksConfig string   `koanf:"gitleaks_config"` // custom rules TOML (embedded mode)
	Allowlist      string   `koanf:"allowlist"`       // allowlist TOML (embedded mode)
	MaxFileMB      int      `koanf:"max_file_mb"`     // per-file cap (embedded mode)
}

// GateConfig names the per-repository enable switch.
type GateConfig struct {
	Key string `koanf:"key"`
}

// ReportConfig controls the human-readable report.
type ReportConfig struct {
	Color string `koanf:"color"`
}

// MetricsConfig controls last-run metrics export.
type MetricsConfig struct {
	Textfile string `koanf:"textfile"` // node-exporter textfile path, empty disables
}

// LoggingConfig controls diagnostics on stderr.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Mode:         ModeBinary,
			FallbackPath: "~/.local/bin/gitleaks",
			Timeout:      Duration(60 * time.Second),
			Fallback:     FallbackError,
			MaxFileMB:    10,
		},
		Gate: GateConfig{
			Key: DefaultGateKey,
		},
		Report: ReportConfig{
			Color: ColorAuto,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Engine.Mode {
	case ModeBinary, ModeEmbedded:
	default:
		return fmt.Errorf("engine.mode must be %q or %q, got %q", ModeBinary, ModeEmbedded, c.Engine.Mode)
	}
	switch c.Engine.Fallback {
	case FallbackError, FallbackSimulate:
	default:
		return fmt.Errorf("engine.fallback must be %q or %q, got %q", FallbackError, FallbackSimulate, c.Engine.Fallback)
	}
	if c.Engine.Timeout.Duration() <= 0 {
		return errors.New("engine.timeout must be positive")
	}
	if c.Engine.MaxFileMB < 1 {
		return fmt.Errorf("engine.max_file_mb must be at least 1, got %d", c.Engine.MaxFileMB)
	}
	if c.Gate.Key == "" {
		return errors.New("gate.key cannot be empty")
	}
	switch c.Report.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("report.color must be auto, always or never, got %q", c.Report.Color)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format)
	}
	return nil
}
