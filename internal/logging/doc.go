// Package logging provides structured logging for lintfix.
//
// # Overview
//
// Logging package wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Automatic context field injection (trace_id, lint.language, lint.linter, run.id)
//   - Level-aware sampling (errors never sampled)
//
// Library packages take a plain *zap.Logger; Logger.Underlying hands one out.
//
// # Usage
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithLint(ctx, logging.Lint{Language: "python", Linter: "flake8", RuleID: "W291"})
//	logger.Info(ctx, "classified", zap.String("method", "rule_knowledge"))
//
// Logs go to stderr so command output on stdout stays machine readable.
//
// # Sampling
//
// Each level below Error has its own sampler:
//   - Trace: first 1 per tick, drop rest
//   - Debug: first 10 per tick, drop rest
//   - Info: first 100, then 1 every 10
//   - Warn: first 100, then 1 every 100
//   - Error+: never sampled
//
// # Testing
//
//	tl := logging.NewTestLogger()
//	tl.Info(ctx, "test message", zap.String("key", "value"))
//	tl.AssertLogged(t, zapcore.InfoLevel, "test message")
//	tl.AssertField(t, "test message", "key", "value")
package logging
