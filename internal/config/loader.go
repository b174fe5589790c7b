package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "LEAKGATE_"

	// RepoConfigName is the per-repository config file at the worktree root.
	RepoConfigName = ".leakgate.yaml"
)

// ErrConfigTooLarge indicates a config file above the size cap.
var ErrConfigTooLarge = errors.New("config file too large")

// ErrRepoConfigKey indicates a repository config file setting a key that
// only the user may set.
var ErrRepoConfigKey = errors.New("key not allowed in repository config")

// repoKeys are the only keys a repository's own config file may set. The
// file travels with clones, so it never picks executables, rule files,
// output paths or the fallback policy.
var repoKeys = map[string]bool{
	"engine.timeout": true,
	"report.color":   true,
	"logging.level":  true,
	"logging.format": true,
}

// Load builds the configuration.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (LEAKGATE_ENGINE_TIMEOUT, LEAKGATE_GATE_KEY, ...)
//  2. <repoRoot>/.leakgate.yaml, restricted to repoKeys
//  3. ~/.config/leakgate/config.yaml
//  4. Defaults
//
// When configPath is set it replaces both files and must exist. Missing
// discovered files are not an error.
//
// Environment variables map to keys by splitting on the first underscore
// after the prefix:
//
//	LEAKGATE_ENGINE_SIMULATE_BLOCK -> engine.simulate_block
//	LEAKGATE_METRICS_TEXTFILE      -> metrics.textfile
func Load(configPath, repoRoot string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		if err := loadFile(k, configPath); err != nil {
			return nil, err
		}
	} else {
		if path := userConfigPath(); path != "" {
			if err := loadFile(k, path); err != nil && !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
		if repoRoot != "" {
			if err := loadRepoFile(k, filepath.Join(repoRoot, RepoConfigName)); err != nil {
				return nil, err
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	content, err := readConfigFile(path)
	if err != nil {
		return err
	}
	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return nil
}

// loadRepoFile merges the repository config into k after checking every
// key it sets against repoKeys.
func loadRepoFile(k *koanf.Koanf, path string) error {
	rk := koanf.New(".")
	if err := loadFile(rk, path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, key := range rk.Keys() {
		if !repoKeys[key] {
			return fmt.Errorf("%w: %s sets %s", ErrRepoConfigKey, path, key)
		}
	}
	if err := k.Merge(rk); err != nil {
		return fmt.Errorf("failed to merge config file %s: %w", path, err)
	}
	return nil
}

// envKey maps LEAKGATE_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

// userConfigPath returns ~/.config/leakgate/config.yaml, or "" without a
// home directory.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "leakgate", "config.yaml")
}

// readConfigFile opens path once and validates it through the open
// descriptor.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("config file %s is not a regular file", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrConfigTooLarge, path, info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}
