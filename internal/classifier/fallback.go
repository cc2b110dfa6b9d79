package classifier

import (
	"strings"

	"github.com/fyrsmithlabs/lintfix/internal/decision"
	"github.com/fyrsmithlabs/lintfix/internal/textnorm"
)

// formatters only ever report what they would rewrite.
var formatters = map[string]bool{
	"black":        true,
	"prettier":     true,
	"gofmt":        true,
	"rustfmt":      true,
	"isort":        true,
	"autopep8":     true,
	"yapf":         true,
	"clang-format": true,
	"shfmt":        true,
	"stylua":       true,
	"standardrb":   true,
	"goimports":    true,
}

var syntaxPhrases = []string{
	"syntax error",
	"parse error",
	"parsing error",
	"unexpected token",
	"invalid syntax",
	"unexpected eof",
	"unterminated",
}

// linterFixableHints are matched against the folded message and rule id.
var linterFixableHints = map[string][]string{
	"ansible-lint": {
		"name[casing]",
		"uppercase",
		"yaml[indentation]",
		"indentation",
		"yaml[truthy]",
		"truthy",
		"yaml[trailing-spaces]",
		"trailing spaces",
		"whitespace",
		"key-duplicates",
		"jinja[spacing]",
		"fqcn",
	},
}

var styleKeywords = []string{"should", "missing", "unused", "line too long", "comment"}

type fallbackTier struct{}

func (fallbackTier) Name() decision.Method { return decision.MethodFallback }

// Classify always answers.
func (fallbackTier) Classify(in Input) (decision.Result, bool) {
	fixable, errorType, reason := fallbackVerdict(in)
	return decision.Result{
		Fixable:    fixable,
		Confidence: FallbackConfidence,
		Method:     decision.MethodFallback,
		ErrorType:  errorType,
		Reason:     reason,
	}, true
}

func fallbackVerdict(in Input) (fixable bool, errorType, reason string) {
	linter := textnorm.Fold(strings.TrimSpace(in.Linter))
	folded := textnorm.Fold(in.Message)

	if formatters[linter] {
		return true, "formatting", "formatter " + linter
	}
	if textnorm.ContainsAny(folded, syntaxPhrases) {
		return false, "syntax", "syntax error phrasing"
	}
	if hints, ok := linterFixableHints[linter]; ok {
		subject := folded + " " + textnorm.Fold(in.RuleID)
		if textnorm.ContainsAny(subject, hints) {
			return true, "style", linter + " fixable idiom"
		}
	}
	if textnorm.ContainsAny(folded, styleKeywords) {
		return true, "style", "style keyword"
	}
	return false, "unknown", "no signal"
}
