// Package decision defines the result every classification tier produces.
package decision

import "fmt"

// Method identifies the cascade tier that produced a result.
type Method string

const (
	// MethodRuleKnowledge is a hit in the rule knowledge base.
	MethodRuleKnowledge Method = "rule_knowledge"
	// MethodPatternMatch is a curated or learned pattern above threshold.
	MethodPatternMatch Method = "pattern_match"
	// MethodFeatureAnalysis is the heuristic feature scorer above threshold.
	MethodFeatureAnalysis Method = "feature_analysis"
	// MethodMLPrediction is the per-language text classifier.
	MethodMLPrediction Method = "ml_prediction"
	// MethodFallback is the keyword fallback, always answers.
	MethodFallback Method = "fallback"
)

// Result is the outcome of classifying one lint error. It is never persisted.
type Result struct {
	Fixable        bool    `json:"fixable"`
	Confidence     float64 `json:"confidence"`
	Method         Method  `json:"method"`
	ErrorType      string  `json:"error_type"`
	MatchedPattern string  `json:"matched_pattern,omitempty"`
	Reason         string  `json:"reason,omitempty"`
}

// String renders a one-line audit form of r.
func (r Result) String() string {
	return fmt.Sprintf("fixable=%t confidence=%.2f method=%s type=%s", r.Fixable, r.Confidence, r.Method, r.ErrorType)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampConfidence limits v to [0, 1].
func ClampConfidence(v float64) float64 {
	return Clamp(v, 0, 1)
}
