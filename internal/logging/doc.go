// Package logging provides structured logging for leakgate.
//
// # Overview
//
// Logging package wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Output to stderr, so the commit report on stdout stays clean
//   - Automatic context field injection (run id, repository root)
//   - Secret redaction at the encoder, for both field names and patterns
//
// # Usage
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithRunID(ctx, uuid.NewString())
//	logger.Info(ctx, "scan finished", zap.Int("findings", n))
//
// # Secret Redaction
//
// Finding secrets must never reach a log line. The encoder redacts values
// whose key looks sensitive ("secret", "token", ...) and values matching the
// configured patterns. Use RedactedString for explicit redaction.
//
// # Testing
//
// Use TestLogger for assertions:
//
//	tl := logging.NewTestLogger()
//	tl.Warn(ctx, "report unreadable")
//	tl.AssertLogged(t, zapcore.WarnLevel, "report unreadable")
//	tl.AssertNoSecrets(t)
package logging
