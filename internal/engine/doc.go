// Package engine provides the secret-detection engines behind scan.Scanner.
//
// BinaryScanner delegates to an installed gitleaks executable and parses its
// JSON report. EmbeddedScanner runs the gitleaks detector in process for
// hosts without the binary. Simulator reproduces a fixed outcome so the
// decision path can be exercised when no engine is present.
//
// None of the engines defines detection rules; those belong to gitleaks.
package engine
