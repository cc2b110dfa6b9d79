package learning

import (
	"math"
	"strings"

	"github.com/fyrsmithlabs/lintfix/internal/decision"
	"github.com/fyrsmithlabs/lintfix/internal/patterns"
	"github.com/fyrsmithlabs/lintfix/internal/textnorm"
)

const (
	// MinedConfidence is the starting confidence of a mined pattern.
	MinedConfidence = 0.7
	// MinedErrorType labels mined patterns.
	MinedErrorType = "learned"

	// ReinforcementStep is the confidence change per observed outcome.
	ReinforcementStep = 0.1
	// MinReinforced and MaxReinforced bound reinforced confidences.
	MinReinforced = 0.1
	MaxReinforced = 1.0
)

var (
	prefixLengths = []int{3, 4, 5}

	// Phrases carrying locations are too specific to generalize.
	tooSpecific = []string{"line ", "column ", "file ", "path "}

	errorIndicators = []string{"error", "warning", "should", "expected", "missing", "unused"}
)

// MinePhrase returns the first 3, 4 or 5 word lower-case prefix of message
// that is general enough and names an error. ok is false when no prefix
// qualifies.
func MinePhrase(message string) (phrase string, ok bool) {
	words := strings.Fields(textnorm.Fold(message))
	for _, n := range prefixLengths {
		if len(words) < n {
			break
		}
		candidate := strings.Join(words[:n], " ")
		if textnorm.ContainsAny(candidate, tooSpecific) {
			continue
		}
		if !textnorm.ContainsAny(candidate, errorIndicators) {
			continue
		}
		return candidate, true
	}
	return "", false
}

// minedPattern builds the pattern recorded for a mined phrase.
func minedPattern(phrase, language, linter string) patterns.ErrorPattern {
	return patterns.ErrorPattern{
		Pattern:     phrase,
		Language:    language,
		Linter:      linter,
		ErrorType:   MinedErrorType,
		Fixable:     true,
		Confidence:  MinedConfidence,
		Description: "learned from successful fix",
	}
}

func hasPatternText(list []patterns.ErrorPattern, text string) bool {
	for _, p := range list {
		if textnorm.Fold(p.Pattern) == text {
			return true
		}
	}
	return false
}

// Reinforce nudges every pattern of linter whose text occurs in message by
// one step toward success or failure. It returns the updated copy and the
// number of patterns changed.
func Reinforce(list []patterns.ErrorPattern, message, linter string, success bool) ([]patterns.ErrorPattern, int) {
	folded := textnorm.Fold(message)
	linter = textnorm.Fold(strings.TrimSpace(linter))
	delta := ReinforcementStep
	if !success {
		delta = -delta
	}

	out := append([]patterns.ErrorPattern(nil), list...)
	changed := 0
	for i, p := range out {
		if textnorm.Fold(strings.TrimSpace(p.Linter)) != linter {
			continue
		}
		text := textnorm.Fold(p.Pattern)
		if text == "" || !strings.Contains(folded, text) {
			continue
		}
		next := roundConfidence(decision.Clamp(p.Confidence+delta, MinReinforced, MaxReinforced))
		if next != p.Confidence {
			out[i].Confidence = next
			changed++
		}
	}
	return out, changed
}

// roundConfidence removes float drift from repeated steps.
func roundConfidence(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
