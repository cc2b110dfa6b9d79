// Package patterns provides the per-language pattern index used by the
// pattern_match tier.
//
// A pattern is a literal substring tied to an error type, a fixability
// verdict and a confidence. Messages are matched case-insensitively.
//
// # Snapshots
//
// Build replaces a language's matcher wholesale: a new immutable snapshot is
// built off to the side and then swapped in with a single atomic pointer
// store. Readers always see either the old or the new snapshot, never a half
// built one.
//
// # Matching
//
// When the automaton is available the index compiles every language into an
// Aho-Corasick trie, so a query costs O(len(message) + matches). With the
// automaton disabled the index scans patterns one by one. Both paths return
// the same set, in pattern-list order.
//
//	idx := patterns.NewIndex()
//	idx.Build("python", patterns.DefaultPatterns()["python"])
//	best, ok := idx.BestMatch("W291 trailing whitespace", "python")
package patterns
