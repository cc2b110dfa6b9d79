package learning

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fyrsmithlabs/lintfix/internal/textnorm"
)

// DefaultMaxExamples caps the examples retained per language.
const DefaultMaxExamples = 1000

// ErrInvalidOutcome is returned for outcomes without a message or language.
var ErrInvalidOutcome = errors.New("outcome requires message and language")

// Example is one stored training example.
type Example struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Language  string    `json:"language"`
	Linter    string    `json:"linter"`
	Fixable   bool      `json:"fixable"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExample stamps an example with a fresh id.
func NewExample(message, language, linter string, fixable bool, at time.Time) Example {
	return Example{
		ID:        uuid.NewString(),
		Message:   message,
		Language:  textnorm.Language(language),
		Linter:    linter,
		Fixable:   fixable,
		Timestamp: at.UTC(),
	}
}

// Outcome is the result of one attempted fix.
type Outcome struct {
	Message  string
	Language string
	Linter   string
	Fixable  bool
}

// Validate checks the required fields.
func (o Outcome) Validate() error {
	if o.Message == "" || textnorm.Language(o.Language) == "" {
		return ErrInvalidOutcome
	}
	return nil
}

// Report describes what one recorded outcome changed.
type Report struct {
	Examples     int    `json:"examples"`
	Retrained    bool   `json:"retrained"`
	MinedPattern string `json:"mined_pattern,omitempty"`
	Reinforced   int    `json:"reinforced"`
}
