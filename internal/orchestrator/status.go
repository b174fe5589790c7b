package orchestrator

// Status is the process exit status of a gate run.
type Status int

const (
	StatusAllowed     Status = 0 // commit may proceed
	StatusBlocked     Status = 1 // secrets found, or the engine's answer was ambiguous
	StatusUnavailable Status = 2 // no engine could scan
	StatusError       Status = 3 // staging, config or other local failure
)

func (s Status) String() string {
	switch s {
	case StatusAllowed:
		return "allowed"
	case StatusBlocked:
		return "blocked"
	case StatusUnavailable:
		return "unavailable"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}
