package gate

import "github.com/fyrsmithlabs/leakgate/internal/scan"

// Decision is the binary commit verdict.
type Decision int

const (
	Allowed Decision = iota
	Blocked
)

func (d Decision) String() string {
	if d == Blocked {
		return "blocked"
	}
	return "allowed"
}

// Verdict is a decision plus the findings behind it. Findings is empty for
// Allowed.
type Verdict struct {
	Decision Decision
	Findings []scan.Finding
}

// Blocked reports whether the commit must be rejected.
func (v Verdict) Blocked() bool {
	return v.Decision == Blocked
}

// Decide turns a scan outcome into a verdict. Anything but a clean outcome
// blocks, including a nonzero exit whose report could not be parsed.
func Decide(outcome scan.Outcome) Verdict {
	if outcome.Signal == scan.Clean {
		return Verdict{Decision: Allowed}
	}
	findings := make([]scan.Finding, len(outcome.Findings))
	copy(findings, outcome.Findings)
	return Verdict{Decision: Blocked, Findings: findings}
}
