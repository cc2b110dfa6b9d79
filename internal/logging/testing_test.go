package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestTestLogger(t *testing.T) {
	tl := NewTestLogger()
	ctx := WithRunID(WithLint(context.Background(), Lint{Language: "go", Linter: "gofmt"}), "run-1")

	tl.Info(ctx, "pattern matched", zap.String("pattern", "should be"), zap.Int("count", 2))
	tl.Trace(ctx, "tier miss")

	assert.Len(t, tl.All(), 2)
	tl.AssertLogged(t, zapcore.InfoLevel, "pattern")
	tl.AssertLogged(t, TraceLevel, "tier miss")
	tl.AssertNotLogged(t, zapcore.ErrorLevel, "pattern")
	tl.AssertField(t, "pattern matched", "pattern", "should be")
	tl.AssertField(t, "pattern matched", "run.id", "run-1")
	tl.AssertLintContext(t, "pattern matched", Lint{Language: "go", Linter: "gofmt"})

	tl.Reset()
	assert.Empty(t, tl.All())
}

func TestContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ContextFields(ctx))
	assert.Empty(t, RunIDFromContext(WithRunID(ctx, "")))

	_, ok := LintFromContext(ctx)
	assert.False(t, ok)

	// Empty lint parts are omitted.
	fields := ContextFields(WithLint(ctx, Lint{Language: "python"}))
	assert.Len(t, fields, 1)
	assert.Equal(t, "lint.language", fields[0].Key)

	tl := NewTestLogger()
	assert.Same(t, tl.Logger, FromContext(WithLogger(ctx, tl.Logger)))
	assert.NotNil(t, FromContext(ctx))
}
