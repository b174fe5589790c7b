package engine

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
	gitleaksConfig "github.com/zricethezav/gitleaks/v8/config"
	gitleaksRegexp "github.com/zricethezav/gitleaks/v8/regexp"
)

// Allowlist holds path and content patterns excluded from detection.
type Allowlist struct {
	Paths   []string // regexes matched against the path relative to the scan root
	Regexes []string // regexes matched against the secret
}

// LoadAllowlist reads an allowlist TOML file:
//
//	[allowlist]
//	paths   = ['''^testdata/''']
//	regexes = ['''EXAMPLE''']
//
// An empty path or a missing file yields an empty allowlist. Invalid TOML
// or patterns are errors.
func LoadAllowlist(path string) (*Allowlist, error) {
	empty := &Allowlist{}
	if path == "" {
		return empty, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return empty, nil
		}
		return nil, fmt.Errorf("allowlist %s: %w", path, err)
	}

	var file struct {
		Allowlist struct {
			Paths   []string
			Regexes []string
		}
	}
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTOML, path, err)
	}
	for _, pattern := range file.Allowlist.Paths {
		if _, err := regexp.Compile(pattern); err != nil {
			return nil, fmt.Errorf("%w: invalid path pattern '%s' in %s: %v", ErrInvalidRegex, pattern, path, err)
		}
	}
	for _, pattern := range file.Allowlist.Regexes {
		if _, err := regexp.Compile(pattern); err != nil {
			return nil, fmt.Errorf("%w: invalid content pattern '%s' in %s: %v", ErrInvalidRegex, pattern, path, err)
		}
	}
	return &Allowlist{Paths: file.Allowlist.Paths, Regexes: file.Allowlist.Regexes}, nil
}

// Empty reports whether the allowlist excludes nothing.
func (a *Allowlist) Empty() bool {
	return a == nil || (len(a.Paths) == 0 && len(a.Regexes) == 0)
}

// apply appends the allowlist to a gitleaks config. Patterns were validated
// by LoadAllowlist.
func (a *Allowlist) apply(cfg *gitleaksConfig.Config) {
	if a.Empty() {
		return
	}
	global := &gitleaksConfig.Allowlist{Description: "leakgate allowlist"}
	for _, pattern := range a.Paths {
		global.Paths = append(global.Paths, (*gitleaksRegexp.Regexp)(regexp.MustCompile(pattern)))
	}
	for _, pattern := range a.Regexes {
		global.Regexes = append(global.Regexes, (*gitleaksRegexp.Regexp)(regexp.MustCompile(pattern)))
	}
	cfg.Allowlists = append(cfg.Allowlists, global)
}

// pathMatchers compiles the path patterns for use outside gitleaks, whose
// string detection ignores path allowlists.
func (a *Allowlist) pathMatchers() []*regexp.Regexp {
	if a == nil {
		return nil
	}
	out := make([]*regexp.Regexp, 0, len(a.Paths))
	for _, pattern := range a.Paths {
		out = append(out, regexp.MustCompile(pattern))
	}
	return out
}
