package textmodel

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/floats"

	"github.com/fyrsmithlabs/lintfix/internal/textnorm"
)

// DefaultMaxFeatures bounds the vocabulary size.
const DefaultMaxFeatures = 500

// ErrEmptyVocabulary is returned when a corpus yields no usable terms.
var ErrEmptyVocabulary = errors.New("corpus produced an empty vocabulary")

var stopWords = map[string]bool{
	"a": true, "about": true, "above": true, "after": true, "again": true, "against": true,
	"all": true, "am": true, "an": true, "and": true, "any": true, "are": true, "as": true,
	"at": true, "be": true, "because": true, "been": true, "before": true, "being": true,
	"below": true, "between": true, "both": true, "but": true, "by": true, "can": true,
	"could": true, "did": true, "do": true, "does": true, "doing": true, "down": true,
	"during": true, "each": true, "few": true, "for": true, "from": true, "further": true,
	"had": true, "has": true, "have": true, "having": true, "he": true, "her": true,
	"here": true, "hers": true, "him": true, "his": true, "how": true, "i": true, "if": true,
	"in": true, "into": true, "is": true, "it": true, "its": true, "itself": true,
	"just": true, "me": true, "more": true, "most": true, "my": true, "no": true, "nor": true,
	"of": true, "off": true, "on": true, "once": true, "only": true, "or": true, "other": true,
	"our": true, "out": true, "over": true, "own": true, "same": true, "she": true,
	"so": true, "some": true, "such": true, "than": true, "that": true, "the": true,
	"their": true, "them": true, "then": true, "there": true, "these": true, "they": true,
	"this": true, "those": true, "through": true, "to": true, "too": true, "under": true,
	"until": true, "up": true, "very": true, "was": true, "we": true, "were": true,
	"what": true, "when": true, "where": true, "which": true, "while": true, "who": true,
	"whom": true, "why": true, "will": true, "with": true, "would": true, "you": true,
	"your": true, "yours": true,
}

// Tokenize folds, strips accents and splits text into terms of at least two
// characters, with stop words removed.
func Tokenize(text string) []string {
	text = textnorm.StripAccents(textnorm.Fold(text))
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < 2 || stopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// terms returns unigrams followed by bigrams of adjacent tokens.
func terms(text string) []string {
	tokens := Tokenize(text)
	out := make([]string, 0, 2*len(tokens))
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// Vectorizer maps text to L2-normalized TF-IDF vectors over a fixed
// vocabulary. Vocabulary is sorted; IDF is aligned with it.
type Vectorizer struct {
	Vocabulary []string  `json:"vocabulary"`
	IDF        []float64 `json:"idf"`

	index map[string]int
}

// FitVectorizer learns a vocabulary of at most maxFeatures terms from docs,
// choosing the most frequent terms across the corpus. Ties are broken
// lexicographically so the same corpus always yields the same vocabulary.
func FitVectorizer(docs []string, maxFeatures int) (*Vectorizer, error) {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}

	tf := make(map[string]int)
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range terms(doc) {
			tf[term]++
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}
	if len(tf) == 0 {
		return nil, ErrEmptyVocabulary
	}

	ranked := make([]string, 0, len(tf))
	for term := range tf {
		ranked = append(ranked, term)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if tf[ranked[i]] != tf[ranked[j]] {
			return tf[ranked[i]] > tf[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > maxFeatures {
		ranked = ranked[:maxFeatures]
	}
	sort.Strings(ranked)

	n := float64(len(docs))
	idf := make([]float64, len(ranked))
	for i, term := range ranked {
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	v := &Vectorizer{Vocabulary: ranked, IDF: idf}
	v.buildIndex()
	return v, nil
}

func (v *Vectorizer) buildIndex() {
	v.index = make(map[string]int, len(v.Vocabulary))
	for i, term := range v.Vocabulary {
		v.index[term] = i
	}
}

func (v *Vectorizer) validate() error {
	if len(v.Vocabulary) == 0 {
		return ErrEmptyVocabulary
	}
	if len(v.IDF) != len(v.Vocabulary) {
		return fmt.Errorf("%w: %d idf weights for %d terms", ErrInvalidArtifact, len(v.IDF), len(v.Vocabulary))
	}
	if !sort.StringsAreSorted(v.Vocabulary) {
		return fmt.Errorf("%w: vocabulary not sorted", ErrInvalidArtifact)
	}
	return nil
}

// Dim returns the vector length.
func (v *Vectorizer) Dim() int {
	return len(v.Vocabulary)
}

// Transform vectorizes text. Text sharing no term with the vocabulary maps to
// the zero vector.
func (v *Vectorizer) Transform(text string) []float64 {
	if v.index == nil {
		v.buildIndex()
	}
	vec := make([]float64, len(v.Vocabulary))
	for _, term := range terms(text) {
		if i, ok := v.index[term]; ok {
			vec[i]++
		}
	}
	floats.Mul(vec, v.IDF)
	if norm := floats.Norm(vec, 2); norm > 0 {
		floats.Scale(1/norm, vec)
	}
	return vec
}
