package engine

import "errors"

var (
	// ErrEngineUnavailable indicates no engine could run the scan.
	ErrEngineUnavailable = errors.New("secret scan engine unavailable")

	// ErrInvalidRegex indicates an allowlist pattern failed to compile.
	ErrInvalidRegex = errors.New("invalid regex pattern")

	// ErrInvalidTOML indicates an allowlist file could not be parsed.
	ErrInvalidTOML = errors.New("invalid TOML format")

	// ErrGitleaksConfig indicates a gitleaks rules file could not be loaded.
	ErrGitleaksConfig = errors.New("invalid gitleaks config")
)

// Engine names reported in scan.Outcome.
const (
	EngineBinary     = "gitleaks"
	EngineEmbedded   = "gitleaks-sdk"
	EngineSimulation = "simulation"
)
