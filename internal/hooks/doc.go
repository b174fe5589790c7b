// Package hooks installs and removes the git pre-commit hook that runs the
// gate.
//
// The installed script carries a marker line so leakgate only ever replaces
// or removes hooks it wrote itself, unless forced.
package hooks
