// Package scan defines the normalized results every secret-scanning engine
// produces: findings and the outcome of a single scan attempt.
package scan

import (
	"context"
	"path/filepath"
	"strings"
)

// Finding is one detected secret occurrence.
type Finding struct {
	RuleID      string  // Rule that fired (e.g., "telegram-bot-api-token")
	Description string  // Human-readable rule description, may be empty
	File        string  // Absolute path at scan time
	StartLine   int     // 1-based; <= 0 means unknown
	Secret      string  // Raw matched text, never logged
	Entropy     float64 // Shannon entropy of Secret
}

// HasLine reports whether the start line is known.
func (f Finding) HasLine() bool {
	return f.StartLine > 0
}

// RelPath returns the finding's file relative to root when it lies under
// root, and the raw path otherwise.
func (f Finding) RelPath(root string) string {
	if f.File == "" || root == "" {
		return f.File
	}
	rel, err := filepath.Rel(root, f.File)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return f.File
	}
	return rel
}

// Scanner is the capability every detection engine implements.
//
// Implementations must not return an error for an engine that simply is not
// present; that is reported as an Unavailable outcome.
type Scanner interface {
	Scan(ctx context.Context, root string) (Outcome, error)
}
