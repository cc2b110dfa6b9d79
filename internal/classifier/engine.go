// Package classifier decides whether a lint error is automatically fixable.
//
// An Engine runs a fixed priority cascade: rule knowledge, curated and
// learned patterns, message features, the per-language text model, and a
// keyword fallback that always answers. The first tier to answer wins.
// Classification is total: it never returns an error and never panics, and
// every confidence lies in [0, 1].
//
// A Store owns one cache directory and wires the engine to the learning
// loop and lifecycle manager that mutate its knowledge.
package classifier

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lintfix/internal/decision"
)

// Engine runs the classification cascade.
type Engine struct {
	tiers    []Tier
	fallback fallbackTier
	cache    *decisionCache
	metrics  *Metrics
	logger   *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	logger    *zap.Logger
	cacheSize int
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) EngineOption {
	return func(o *engineOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCacheSize enables a decision cache of n entries. Zero disables it.
func WithCacheSize(n int) EngineOption {
	return func(o *engineOptions) {
		o.cacheSize = n
	}
}

// NewEngine builds an engine over tiers, consulted in order before the
// fallback.
func NewEngine(tiers []Tier, opts ...EngineOption) (*Engine, error) {
	o := engineOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	metrics := NewMetrics()
	cache, err := newDecisionCache(o.cacheSize, metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create decision cache: %w", err)
	}

	return &Engine{
		tiers:   append([]Tier(nil), tiers...),
		cache:   cache,
		metrics: metrics,
		logger:  o.logger,
	}, nil
}

// Tiers returns the configured cascade, fallback included.
func (e *Engine) Tiers() []decision.Method {
	out := make([]decision.Method, 0, len(e.tiers)+1)
	for _, t := range e.tiers {
		out = append(out, t.Name())
	}
	return append(out, e.fallback.Name())
}

// Classify returns the first answer of the cascade for one lint error.
func (e *Engine) Classify(message, language, linter, ruleID string) decision.Result {
	in := Input{Message: message, Language: language, Linter: linter, RuleID: ruleID}
	key := cacheKey{message: message, language: language, linter: linter, ruleID: ruleID}
	if r, ok := e.cache.get(key); ok {
		return r
	}

	r := e.classify(in)
	r.Confidence = decision.ClampConfidence(r.Confidence)

	e.metrics.ClassificationsTotal.WithLabelValues(string(r.Method)).Inc()
	e.metrics.Confidence.WithLabelValues(string(r.Method)).Observe(r.Confidence)
	e.cache.add(key, r)
	return r
}

func (e *Engine) classify(in Input) decision.Result {
	if strings.TrimSpace(in.Message) == "" || strings.TrimSpace(in.Language) == "" {
		r, _ := e.fallback.Classify(in)
		r.Confidence = DegenerateConfidence
		r.Reason = "empty message or language"
		return r
	}

	for _, t := range e.tiers {
		if r, ok := e.try(t, in); ok {
			return r
		}
	}
	r, _ := e.fallback.Classify(in)
	return r
}

// try runs one tier, treating a panic as a miss.
func (e *Engine) try(t Tier, in Input) (r decision.Result, ok bool) {
	defer func() {
		if v := recover(); v != nil {
			e.metrics.TierPanicsTotal.WithLabelValues(string(t.Name())).Inc()
			e.logger.Error("classification tier panicked",
				zap.String("tier", string(t.Name())),
				zap.String("language", in.Language),
				zap.String("linter", in.Linter),
				zap.String("rule_id", in.RuleID),
				zap.Any("panic", v),
			)
			r, ok = decision.Result{}, false
		}
	}()

	r, ok = t.Classify(in)
	if ok {
		// A tier may not claim another tier's method.
		r.Method = t.Name()
	}
	return r, ok
}

// Purge drops every cached decision. Call it after any mutation of rules,
// patterns or models.
func (e *Engine) Purge() {
	e.cache.purge()
}

// CachedDecisions returns the number of cached decisions.
func (e *Engine) CachedDecisions() int {
	return e.cache.len()
}
