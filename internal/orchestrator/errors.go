package orchestrator

import (
	"github.com/fyrsmithlabs/leakgate/internal/engine"
)

// ErrEngineUnavailable is returned when no engine could scan and the
// fallback policy does not allow a simulation.
var ErrEngineUnavailable = engine.ErrEngineUnavailable
