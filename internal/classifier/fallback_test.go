package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fyrsmithlabs/lintfix/internal/decision"
)

func TestFallback(t *testing.T) {
	tests := []struct {
		name    string
		in      Input
		fixable bool
		errType string
	}{
		{"formatter", Input{Message: "anything", Linter: "black"}, true, "formatting"},
		{"formatter case insensitive", Input{Message: "would reformat", Linter: "Prettier"}, true, "formatting"},
		{"formatter beats syntax phrasing", Input{Message: "cannot format: parse error", Linter: "gofmt"}, true, "formatting"},
		{"syntax error", Input{Message: "SyntaxError: invalid syntax", Linter: "flake8"}, false, "syntax"},
		{"unterminated string", Input{Message: "Unterminated string literal", Linter: "eslint"}, false, "syntax"},
		{"syntax beats style keyword", Input{Message: "unexpected EOF, missing brace", Linter: "eslint"}, false, "syntax"},
		{"ansible idiom in rule id", Input{Message: "Jinja2 template rewrite", Linter: "ansible-lint", RuleID: "jinja[spacing]"}, true, "style"},
		{"ansible idiom in message", Input{Message: "Use FQCN for builtin module actions", Linter: "ansible-lint"}, true, "style"},
		{"style keyword", Input{Message: "unused variable x", Linter: "pylint"}, true, "style"},
		{"comment keyword", Input{Message: "Comment has no leading space", Linter: "rubocop"}, true, "style"},
		{"no signal", Input{Message: "undefined name foo", Linter: "flake8"}, false, "unknown"},
		{"empty", Input{}, false, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := fallbackTier{}.Classify(tt.in)
			assert.True(t, ok)
			assert.Equal(t, tt.fixable, r.Fixable)
			assert.Equal(t, tt.errType, r.ErrorType)
			assert.Equal(t, FallbackConfidence, r.Confidence)
			assert.Equal(t, decision.MethodFallback, r.Method)
		})
	}
}
