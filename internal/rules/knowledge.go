// Package rules holds per-(linter, rule id) fixability knowledge.
//
// The knowledge base starts from a hardcoded seed table and can be overlaid
// with an external rule feed produced by a documentation scraper. Feed entries
// win over seed entries for the same key. Lookups are answered from an
// immutable table that is swapped atomically on every (re)load.
package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// ErrInvalidFeed indicates the rule feed document could not be decoded.
var ErrInvalidFeed = errors.New("invalid rule feed")

// table maps folded linter -> folded rule id -> record.
type table map[string]map[string]Record

func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (t table) put(r Record) {
	linter := foldKey(r.Linter)
	if t[linter] == nil {
		t[linter] = make(map[string]Record)
	}
	t[linter][foldKey(r.RuleID)] = r
}

func (t table) count() int {
	n := 0
	for _, rules := range t {
		n += len(rules)
	}
	return n
}

// KnowledgeBase answers fixability questions for known lint rules.
type KnowledgeBase struct {
	logger *zap.Logger
	seeds  []Record

	loadMu  sync.Mutex
	current atomic.Pointer[table]
}

// NewKnowledgeBase creates a knowledge base holding only the seed table.
func NewKnowledgeBase(logger *zap.Logger) *KnowledgeBase {
	if logger == nil {
		logger = zap.NewNop()
	}
	kb := &KnowledgeBase{
		logger: logger,
		seeds:  seedRecords(),
	}
	kb.current.Store(kb.seedTable())
	return kb
}

func (kb *KnowledgeBase) seedTable() *table {
	t := make(table)
	for _, r := range kb.seeds {
		t.put(r)
	}
	return &t
}

// Lookup returns the record for (linter, ruleID).
func (kb *KnowledgeBase) Lookup(linter, ruleID string) (Record, bool) {
	if foldKey(linter) == "" || foldKey(ruleID) == "" {
		return Record{}, false
	}
	t := *kb.current.Load()
	r, ok := t[foldKey(linter)][foldKey(ruleID)]
	return r, ok
}

// IsKnownFixable returns Known(auto_fixable) for recorded rules and Unknown
// otherwise.
func (kb *KnowledgeBase) IsKnownFixable(linter, ruleID string) Fixability {
	r, ok := kb.Lookup(linter, ruleID)
	if !ok {
		return Unknown
	}
	return Known(r.AutoFixable)
}

// Count returns the number of records.
func (kb *KnowledgeBase) Count() int {
	return kb.current.Load().count()
}

// Linters returns the linters with at least one record, sorted.
func (kb *KnowledgeBase) Linters() []string {
	t := *kb.current.Load()
	out := make([]string, 0, len(t))
	for l := range t {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// feedEntry is one rule in the feed document. AutoFixable is a pointer so a
// missing flag can be told apart from false.
type feedEntry struct {
	Category    string `json:"category"`
	AutoFixable *bool  `json:"auto_fixable"`
	Complexity  string `json:"complexity"`
	Description string `json:"description"`
	FixStrategy string `json:"fix_strategy"`
	SourceURL   string `json:"source_url"`
}

// FeedStats summarizes one feed load.
type FeedStats struct {
	Loaded   int
	Rejected int
	Skipped  int
}

// validRuleID rejects ids the scraper picks up from page chrome: anchors,
// javascript links and relative paths.
func validRuleID(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	return !strings.HasPrefix(id, "javascript:") && !strings.HasPrefix(id, ".") && !strings.HasPrefix(id, "#")
}

// LoadFeed merges the feed document at path over the seed table. A document
// that cannot be read or decoded leaves the current table untouched.
// Individual entries with malformed ids or bodies are dropped.
func (kb *KnowledgeBase) LoadFeed(path string) (FeedStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FeedStats{}, err
	}
	return kb.MergeFeed(data)
}

// MergeFeed merges a feed document given as raw JSON.
func (kb *KnowledgeBase) MergeFeed(data []byte) (FeedStats, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return FeedStats{}, fmt.Errorf("%w: %v", ErrInvalidFeed, err)
	}

	kb.loadMu.Lock()
	defer kb.loadMu.Unlock()

	var stats FeedStats
	next := kb.seedTable()
	for linter, block := range doc {
		var rules map[string]json.RawMessage
		if err := json.Unmarshal(block, &rules); err != nil {
			stats.Skipped++
			kb.logger.Debug("skipping malformed linter block",
				zap.String("linter", linter), zap.Error(err))
			continue
		}
		if foldKey(linter) == "" {
			stats.Skipped += len(rules)
			continue
		}
		for ruleID, raw := range rules {
			if !validRuleID(ruleID) {
				stats.Rejected++
				kb.logger.Debug("dropping malformed rule id",
					zap.String("linter", linter), zap.String("rule_id", ruleID))
				continue
			}
			var e feedEntry
			if err := json.Unmarshal(raw, &e); err != nil || e.AutoFixable == nil {
				stats.Skipped++
				kb.logger.Debug("skipping malformed rule entry",
					zap.String("linter", linter), zap.String("rule_id", ruleID), zap.Error(err))
				continue
			}
			next.put(Record{
				Linter:      linter,
				RuleID:      ruleID,
				Category:    e.Category,
				AutoFixable: *e.AutoFixable,
				Complexity:  e.Complexity,
				Description: e.Description,
				FixStrategy: e.FixStrategy,
				SourceURL:   e.SourceURL,
				Source:      SourceFeed,
			})
			stats.Loaded++
		}
	}

	kb.current.Store(next)
	kb.logger.Info("merged rule feed",
		zap.Int("loaded", stats.Loaded),
		zap.Int("rejected", stats.Rejected),
		zap.Int("skipped", stats.Skipped),
		zap.Int("total", next.count()),
	)
	return stats, nil
}
