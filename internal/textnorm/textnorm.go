// Package textnorm holds the small text folding helpers shared by the pattern
// matcher, the feature extractor and the language model vectorizer.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lower-cases s. Matching in this module is always case-insensitive.
func Fold(s string) string {
	return strings.ToLower(s)
}

// StripAccents removes combining marks after canonical decomposition, so
// "café" and "cafe" produce the same tokens.
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Language normalizes a language identifier into the key used by every
// per-language registry.
func Language(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}

// ContainsAny reports whether folded contains any of the needles. folded must
// already be lower-case.
func ContainsAny(folded string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(folded, n) {
			return true
		}
	}
	return false
}

// Matching returns the needles that occur in folded, in list order.
func Matching(folded string, needles []string) []string {
	var out []string
	for _, n := range needles {
		if strings.Contains(folded, n) {
			out = append(out, n)
		}
	}
	return out
}
