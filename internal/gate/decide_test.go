package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fyrsmithlabs/leakgate/internal/scan"
)

func TestDecide(t *testing.T) {
	finding := scan.Finding{RuleID: "generic-api-key", Secret: "abcdefghijkl"}

	tests := []struct {
		name         string
		outcome      scan.Outcome
		want         Decision
		wantFindings int
	}{
		{"clean", scan.NewOutcome("gitleaks", 0, nil), Allowed, 0},
		{"findings with exit 1", scan.NewOutcome("gitleaks", 1, []scan.Finding{finding}), Blocked, 1},
		{"exit 1 with unparsable report", scan.NewOutcome("gitleaks", 1, nil), Blocked, 0},
		{"findings with exit 0", scan.NewOutcome("gitleaks", 0, []scan.Finding{finding, finding}), Blocked, 2},
		{"unavailable fails closed", scan.UnavailableOutcome("gitleaks", scan.ReasonTimeout), Blocked, 0},
		{"clean signal ignores stray findings", scan.Outcome{Signal: scan.Clean, Findings: []scan.Finding{finding}}, Allowed, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Decide(tt.outcome)
			assert.Equal(t, tt.want, v.Decision)
			assert.Len(t, v.Findings, tt.wantFindings)
			assert.Equal(t, tt.want == Blocked, v.Blocked())
		})
	}
}

func TestDecide_Deterministic(t *testing.T) {
	o := scan.NewOutcome("gitleaks", 1, []scan.Finding{{RuleID: "a"}, {RuleID: "b"}})
	assert.Equal(t, Decide(o), Decide(o))
}

func TestDecide_DoesNotAliasFindings(t *testing.T) {
	o := scan.NewOutcome("gitleaks", 1, []scan.Finding{{RuleID: "a"}})
	v := Decide(o)
	o.Findings[0].RuleID = "mutated"
	assert.Equal(t, "a", v.Findings[0].RuleID)
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "allowed", Allowed.String())
	assert.Equal(t, "blocked", Blocked.String())
}
