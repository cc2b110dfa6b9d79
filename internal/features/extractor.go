// Package features extracts heuristic signals from a lint message and scores
// them into a fixability verdict.
//
// Extract is pure and deterministic. ClassifyByFeatures turns the signals into
// a result for the feature_analysis tier using an additive score centred on
// 0.5.
package features

import (
	"regexp"
	"strings"

	"github.com/fyrsmithlabs/lintfix/internal/decision"
	"github.com/fyrsmithlabs/lintfix/internal/textnorm"
)

// ErrorFeatures are the signals extracted from one message.
type ErrorFeatures struct {
	RuleCategory    string `json:"rule_category"`
	RuleSubcategory string `json:"rule_subcategory,omitempty"`
	RuleID          string `json:"rule_id"`

	ContainsSuggestion   bool `json:"contains_suggestion"`
	HasBeforeAfter       bool `json:"has_before_after"`
	MentionsFormatting   bool `json:"mentions_formatting"`
	HasLineNumbers       bool `json:"has_line_numbers"`
	NeedsDomainKnowledge bool `json:"needs_domain_knowledge"`
	RequiresLogicChange  bool `json:"requires_logic_change"`

	AutoFixableKeywords []string `json:"auto_fixable_keywords,omitempty"`
	ManualOnlyKeywords  []string `json:"manual_only_keywords,omitempty"`
}

// bracketRule parses "category[subcategory]" rule ids.
var bracketRule = regexp.MustCompile(`^([^\[\]]+)\[([^\[\]]+)\]$`)

// lineNumbers matches "line 12", ":12:" and "L12" style locations.
var lineNumbers = regexp.MustCompile(`(?i)(\bline \d+|:\d+:|\bl\d+\b)`)

const ansibleLint = "ansible-lint"

// Extract computes the features of a message. language is accepted for
// symmetry with the other tiers; no current signal depends on it.
func Extract(message, language, linter, ruleID string) ErrorFeatures {
	folded := textnorm.Fold(message)
	linter = textnorm.Fold(strings.TrimSpace(linter))

	f := ErrorFeatures{RuleID: ruleID}
	if m := bracketRule.FindStringSubmatch(strings.TrimSpace(ruleID)); m != nil {
		f.RuleCategory = m[1]
		f.RuleSubcategory = m[2]
	} else {
		f.RuleCategory = strings.TrimSpace(ruleID)
	}

	f.ContainsSuggestion = textnorm.ContainsAny(folded, suggestionWords)
	f.HasBeforeAfter = strings.Contains(folded, "->") ||
		strings.Contains(folded, "instead of") ||
		(strings.Contains(folded, "before") && strings.Contains(folded, "after"))
	f.MentionsFormatting = textnorm.ContainsAny(folded, formattingWords)
	f.HasLineNumbers = lineNumbers.MatchString(message)

	manualWords := domainWords
	if linter == ansibleLint {
		if textnorm.ContainsAny(folded, ansibleModuleParamHints) {
			// Module parameter problems always need a human; the remaining
			// fields are deliberately left at their zero values.
			f.NeedsDomainKnowledge = true
			return f
		}
	} else {
		manualWords = append(append([]string{}, domainWords...), "name")
	}
	f.NeedsDomainKnowledge = textnorm.ContainsAny(folded, manualWords)

	f.RequiresLogicChange = textnorm.ContainsAny(folded, logicWords)

	f.AutoFixableKeywords = textnorm.Matching(folded, genericAutoKeywords)
	f.AutoFixableKeywords = appendUnique(f.AutoFixableKeywords, textnorm.Matching(folded, linterAutoKeywords[linter]))

	f.ManualOnlyKeywords = textnorm.Matching(folded, genericManualKeywords)
	if linter != ansibleLint {
		f.ManualOnlyKeywords = appendUnique(f.ManualOnlyKeywords, textnorm.Matching(folded, namingManualKeywords))
	}
	f.ManualOnlyKeywords = appendUnique(f.ManualOnlyKeywords, textnorm.Matching(folded, linterManualKeywords[linter]))

	return f
}

func appendUnique(dst, src []string) []string {
	for _, s := range src {
		dup := false
		for _, d := range dst {
			if d == s {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, s)
		}
	}
	return dst
}

// Score weights. Positive values push toward fixable.
const (
	baseScore        = 0.5
	autoKeywordBonus = 0.2
	formattingBonus  = 0.15
	categoryBonus    = 0.1
	suggestionBonus  = 0.1
	maxConfidence    = 0.9
)

// ClassifyByFeatures scores f. The verdict is fixable when the score stays at
// or above 0.5; confidence is the distance from neutral added to 0.5, capped
// at 0.9.
func ClassifyByFeatures(f ErrorFeatures) decision.Result {
	score := baseScore
	category := strings.ToLower(f.RuleCategory)
	var reasons []string

	if len(f.AutoFixableKeywords) > 0 {
		score += autoKeywordBonus
		reasons = append(reasons, "auto-fixable keywords")
	}
	if f.MentionsFormatting {
		score += formattingBonus
		reasons = append(reasons, "formatting")
	}
	if fixableCategories[category] {
		score += categoryBonus
		reasons = append(reasons, "fixable category")
	}

	if len(f.ManualOnlyKeywords) > 0 {
		score -= autoKeywordBonus
		reasons = append(reasons, "manual-only keywords")
	}
	if f.NeedsDomainKnowledge {
		score -= formattingBonus
		reasons = append(reasons, "domain knowledge")
	}
	if manualCategories[category] {
		score -= categoryBonus
		reasons = append(reasons, "manual category")
	}

	if f.ContainsSuggestion && f.HasBeforeAfter {
		score += suggestionBonus
		reasons = append(reasons, "suggestion with before/after")
	}

	fixable := score >= baseScore
	distance := score - baseScore
	if distance < 0 {
		distance = -distance
	}
	confidence := decision.Clamp(baseScore+distance, 0, maxConfidence)

	errorType := f.RuleCategory
	if errorType == "" {
		errorType = "unknown"
	}
	return decision.Result{
		Fixable:    fixable,
		Confidence: confidence,
		Method:     decision.MethodFeatureAnalysis,
		ErrorType:  errorType,
		Reason:     strings.Join(reasons, ", "),
	}
}
