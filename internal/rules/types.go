package rules

// Source records where a rule record came from.
type Source string

const (
	// SourceSeed marks records compiled into the binary.
	SourceSeed Source = "seed"
	// SourceFeed marks records merged from the external rule feed.
	SourceFeed Source = "feed"
)

// Record is the metadata known for one (linter, rule id) pair.
type Record struct {
	Linter      string `json:"linter"`
	RuleID      string `json:"rule_id"`
	Category    string `json:"category"`
	AutoFixable bool   `json:"auto_fixable"`
	Complexity  string `json:"complexity"`
	Description string `json:"description"`
	FixStrategy string `json:"fix_strategy"`
	SourceURL   string `json:"source_url,omitempty"`
	Source      Source `json:"source"`
}

// Fixability is the knowledge base's answer for a rule: Known(true),
// Known(false) or Unknown. The zero value is Unknown, so "no opinion" can
// never be mistaken for "not fixable".
type Fixability struct {
	known   bool
	fixable bool
}

// Unknown means the knowledge base has no opinion; the caller falls through
// to the next tier.
var Unknown = Fixability{}

// Known returns a definite answer.
func Known(fixable bool) Fixability {
	return Fixability{known: true, fixable: fixable}
}

// IsKnown reports whether f carries a definite answer.
func (f Fixability) IsKnown() bool {
	return f.known
}

// Value returns the answer and whether it is known.
func (f Fixability) Value() (fixable, known bool) {
	return f.fixable, f.known
}

func (f Fixability) String() string {
	switch {
	case !f.known:
		return "unknown"
	case f.fixable:
		return "known(true)"
	default:
		return "known(false)"
	}
}
