// Package orchestrator runs one gate invocation end to end: consult the
// per-repository switch, scan, fall back when the engine is missing,
// decide, render the report and map the result to an exit status.
package orchestrator
