package patterns

import "strings"

// ErrorPattern is a curated or learned error pattern.
type ErrorPattern struct {
	// Pattern is the literal text matched case-insensitively against messages.
	Pattern string `json:"pattern" toml:"pattern"`

	// Language is the language key the pattern belongs to.
	Language string `json:"language" toml:"language"`

	// Linter that emits the message, used to scope reinforcement.
	Linter string `json:"linter" toml:"linter"`

	// ErrorType is a short label such as "whitespace" or "unused".
	ErrorType string `json:"error_type" toml:"error_type"`

	// Fixable is the verdict returned when this pattern wins.
	Fixable bool `json:"fixable" toml:"fixable"`

	// Confidence in [0, 1].
	Confidence float64 `json:"confidence" toml:"confidence"`

	Description string `json:"description,omitempty" toml:"description"`
}

// Key identifies a pattern within a language.
func (p ErrorPattern) Key() string {
	return strings.ToLower(p.Linter) + "\x00" + strings.ToLower(p.Pattern)
}
