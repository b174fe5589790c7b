// Package staging copies the staged contents of a commit into a private
// directory so an engine can scan exactly what would be committed.
package staging
