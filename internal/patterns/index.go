package patterns

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	ahocorasick "github.com/BobuSumisu/aho-corasick"

	"github.com/fyrsmithlabs/lintfix/internal/decision"
	"github.com/fyrsmithlabs/lintfix/internal/textnorm"
)

// snapshot is an immutable, fully built matcher for one language.
type snapshot struct {
	patterns []ErrorPattern
	folded   []string // folded pattern text, parallel to patterns

	// owners maps a trie pattern id (index into the unique folded texts) to
	// the indices of every pattern sharing that text.
	owners [][]int
	trie   *ahocorasick.Trie
}

// Index is the per-language pattern matcher.
type Index struct {
	automaton bool

	// writeMu serializes builders; readers never take it.
	writeMu   sync.Mutex
	snapshots atomic.Pointer[map[string]*snapshot]
}

// Option configures an Index.
type Option func(*Index)

// WithLinearScan disables the Aho-Corasick automaton and falls back to a
// per-pattern scan.
func WithLinearScan() Option {
	return func(i *Index) {
		i.automaton = false
	}
}

// NewIndex creates an empty index.
func NewIndex(opts ...Option) *Index {
	idx := &Index{automaton: true}
	for _, opt := range opts {
		opt(idx)
	}
	empty := map[string]*snapshot{}
	idx.snapshots.Store(&empty)
	return idx
}

// MatcherAvailable reports whether queries run on the automaton.
func (i *Index) MatcherAvailable() bool {
	return i.automaton
}

// Build replaces the matcher for language. Patterns with empty text are
// dropped and confidences are clamped to [0, 1].
func (i *Index) Build(language string, patterns []ErrorPattern) {
	language = textnorm.Language(language)
	snap := i.newSnapshot(language, patterns)

	i.writeMu.Lock()
	defer i.writeMu.Unlock()

	current := *i.snapshots.Load()
	next := make(map[string]*snapshot, len(current)+1)
	for k, v := range current {
		next[k] = v
	}
	next[language] = snap
	i.snapshots.Store(&next)
}

func (i *Index) newSnapshot(language string, patterns []ErrorPattern) *snapshot {
	snap := &snapshot{
		patterns: make([]ErrorPattern, 0, len(patterns)),
		folded:   make([]string, 0, len(patterns)),
	}
	for _, p := range patterns {
		folded := textnorm.Fold(p.Pattern)
		if strings.TrimSpace(folded) == "" {
			continue
		}
		p.Language = language
		p.Confidence = decision.ClampConfidence(p.Confidence)
		snap.patterns = append(snap.patterns, p)
		snap.folded = append(snap.folded, folded)
	}

	if !i.automaton || len(snap.patterns) == 0 {
		return snap
	}

	textID := make(map[string]int, len(snap.folded))
	var unique []string
	for idx, f := range snap.folded {
		id, ok := textID[f]
		if !ok {
			id = len(unique)
			textID[f] = id
			unique = append(unique, f)
			snap.owners = append(snap.owners, nil)
		}
		snap.owners[id] = append(snap.owners[id], idx)
	}
	snap.trie = ahocorasick.NewTrieBuilder().AddStrings(unique).Build()
	return snap
}

func (i *Index) load(language string) *snapshot {
	return (*i.snapshots.Load())[textnorm.Language(language)]
}

// Query returns every pattern of language whose text occurs in message,
// ignoring case, in pattern-list order.
func (i *Index) Query(message, language string) []ErrorPattern {
	if message == "" {
		return nil
	}
	snap := i.load(language)
	if snap == nil || len(snap.patterns) == 0 {
		return nil
	}

	folded := textnorm.Fold(message)
	var hits []int
	if snap.trie != nil {
		hits = snap.matchAutomaton(folded)
	} else {
		hits = snap.matchLinear(folded)
	}

	out := make([]ErrorPattern, 0, len(hits))
	for _, h := range hits {
		out = append(out, snap.patterns[h])
	}
	return out
}

func (s *snapshot) matchAutomaton(folded string) []int {
	seen := make(map[int64]bool)
	var hits []int
	for _, m := range s.trie.MatchString(folded) {
		id := m.Pattern()
		if seen[id] {
			continue
		}
		seen[id] = true
		hits = append(hits, s.owners[id]...)
	}
	sort.Ints(hits)
	return hits
}

func (s *snapshot) matchLinear(folded string) []int {
	var hits []int
	for idx, p := range s.folded {
		if strings.Contains(folded, p) {
			hits = append(hits, idx)
		}
	}
	return hits
}

// BestMatch returns the matching pattern with the highest confidence. Ties
// keep the pattern listed first.
func (i *Index) BestMatch(message, language string) (ErrorPattern, bool) {
	matches := i.Query(message, language)
	if len(matches) == 0 {
		return ErrorPattern{}, false
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if m.Confidence > best.Confidence {
			best = m
		}
	}
	return best, true
}

// Patterns returns a copy of the pattern list for language.
func (i *Index) Patterns(language string) []ErrorPattern {
	snap := i.load(language)
	if snap == nil {
		return nil
	}
	out := make([]ErrorPattern, len(snap.patterns))
	copy(out, snap.patterns)
	return out
}

// Languages returns the indexed languages, sorted.
func (i *Index) Languages() []string {
	snaps := *i.snapshots.Load()
	langs := make([]string, 0, len(snaps))
	for lang := range snaps {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Counts returns the number of patterns per language.
func (i *Index) Counts() map[string]int {
	snaps := *i.snapshots.Load()
	counts := make(map[string]int, len(snaps))
	for lang, s := range snaps {
		counts[lang] = len(s.patterns)
	}
	return counts
}
