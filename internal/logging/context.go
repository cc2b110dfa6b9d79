package logging

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 8)

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		sc := span.SpanContext()
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}

	if lint, ok := LintFromContext(ctx); ok {
		if lint.Language != "" {
			fields = append(fields, zap.String("lint.language", lint.Language))
		}
		if lint.Linter != "" {
			fields = append(fields, zap.String("lint.linter", lint.Linter))
		}
		if lint.RuleID != "" {
			fields = append(fields, zap.String("lint.rule_id", lint.RuleID))
		}
	}

	if runID := RunIDFromContext(ctx); runID != "" {
		fields = append(fields, zap.String("run.id", runID))
	}

	return fields
}

type lintCtxKey struct{}
type runCtxKey struct{}

// Lint identifies the lint message being handled.
type Lint struct {
	Language string
	Linter   string
	RuleID   string
}

// WithLint adds lint identity to context.
func WithLint(ctx context.Context, lint Lint) context.Context {
	return context.WithValue(ctx, lintCtxKey{}, lint)
}

// LintFromContext extracts lint identity from context.
func LintFromContext(ctx context.Context) (Lint, bool) {
	l, ok := ctx.Value(lintCtxKey{}).(Lint)
	return l, ok
}

// WithRunID tags every log line of one CLI invocation.
func WithRunID(ctx context.Context, runID string) context.Context {
	if runID == "" {
		return ctx
	}
	return context.WithValue(ctx, runCtxKey{}, runID)
}

// RunIDFromContext extracts the run ID from context.
func RunIDFromContext(ctx context.Context) string {
	if r, ok := ctx.Value(runCtxKey{}).(string); ok {
		return r
	}
	return ""
}

type loggerCtxKey struct{}

// WithLogger stores logger in context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// FromContext retrieves logger from context.
// Returns a nop logger if not found.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}
	return &Logger{zap: zap.NewNop(), config: NewDefaultConfig()}
}
