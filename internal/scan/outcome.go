package scan

// Signal classifies how a scan attempt ended.
type Signal int

const (
	// Clean means the engine ran, exited zero and reported nothing.
	Clean Signal = iota
	// Findings means the engine ran and exited nonzero or reported findings.
	Findings
	// Unavailable means the engine could not run at all.
	Unavailable
)

func (s Signal) String() string {
	switch s {
	case Clean:
		return "clean"
	case Findings:
		return "findings"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Reason explains an Unavailable outcome.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonNotInstalled Reason = "not-installed"
	ReasonTimeout      Reason = "timeout"
	ReasonStartFailed  Reason = "start-failed"
)

// Outcome is the result of one scan attempt.
type Outcome struct {
	Signal   Signal
	ExitCode int
	Findings []Finding
	Reason   Reason
	Engine   string
}

// NewOutcome derives the signal from an engine's exit code and parsed
// findings. A nonzero exit or any finding yields Findings, even when the
// other side is empty.
func NewOutcome(engine string, exitCode int, findings []Finding) Outcome {
	signal := Clean
	if exitCode != 0 || len(findings) > 0 {
		signal = Findings
	}
	return Outcome{
		Signal:   signal,
		ExitCode: exitCode,
		Findings: findings,
		Engine:   engine,
	}
}

// UnavailableOutcome reports that engine could not run. It never carries
// findings.
func UnavailableOutcome(engine string, reason Reason) Outcome {
	return Outcome{
		Signal: Unavailable,
		Reason: reason,
		Engine: engine,
	}
}
