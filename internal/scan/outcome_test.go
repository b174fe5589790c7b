package scan

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOutcome(t *testing.T) {
	tests := []struct {
		name     string
		exitCode int
		findings []Finding
		want     Signal
	}{
		{"zero exit no findings", 0, nil, Clean},
		{"nonzero exit no findings", 1, nil, Findings},
		{"zero exit with findings", 0, []Finding{{RuleID: "generic-api-key"}}, Findings},
		{"nonzero exit with findings", 1, []Finding{{RuleID: "generic-api-key"}}, Findings},
		{"killed process", -1, nil, Findings},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewOutcome("test", tt.exitCode, tt.findings)
			assert.Equal(t, tt.want, got.Signal)
			assert.Equal(t, tt.exitCode, got.ExitCode)
			assert.Equal(t, "test", got.Engine)
		})
	}
}

func TestUnavailableOutcome(t *testing.T) {
	o := UnavailableOutcome("gitleaks", ReasonTimeout)
	assert.Equal(t, Unavailable, o.Signal)
	assert.Equal(t, ReasonTimeout, o.Reason)
	assert.Empty(t, o.Findings)
	assert.Equal(t, "unavailable", o.Signal.String())
}

func TestFinding_RelPath(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "tmp", "scan")
	tests := []struct {
		name string
		file string
		want string
	}{
		{"descendant", filepath.Join(root, "config.py"), "config.py"},
		{"nested descendant", filepath.Join(root, "app", ".env"), filepath.Join("app", ".env")},
		{"sibling with shared prefix", root + "-other" + string(filepath.Separator) + "x.py", root + "-other" + string(filepath.Separator) + "x.py"},
		{"outside root", filepath.Join(string(filepath.Separator), "etc", "passwd"), filepath.Join(string(filepath.Separator), "etc", "passwd")},
		{"root itself", root, root},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Finding{File: tt.file}
			assert.Equal(t, tt.want, f.RelPath(root))
		})
	}
}
