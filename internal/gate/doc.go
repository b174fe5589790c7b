// Package gate holds the two pure decisions leakgate makes around a scan:
// whether the gate is switched on for a repository, and whether a scan
// outcome blocks the commit.
package gate
