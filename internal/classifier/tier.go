package classifier

import (
	"fmt"

	"github.com/fyrsmithlabs/lintfix/internal/decision"
	"github.com/fyrsmithlabs/lintfix/internal/features"
	"github.com/fyrsmithlabs/lintfix/internal/patterns"
	"github.com/fyrsmithlabs/lintfix/internal/rules"
	"github.com/fyrsmithlabs/lintfix/internal/textmodel"
)

// Cascade constants. Tests pin them; they are not tuning knobs.
const (
	RuleConfidence       = 0.95
	PatternThreshold     = 0.7
	FeatureThreshold     = 0.6
	FallbackConfidence   = 0.3
	DegenerateConfidence = 0.1
)

// Input is one lint error to classify.
type Input struct {
	Message  string
	Language string
	Linter   string
	RuleID   string
}

// Tier is one stage of the cascade. Classify returns false to decline, which
// passes the input to the next tier.
type Tier interface {
	Name() decision.Method
	Classify(in Input) (decision.Result, bool)
}

// DefaultTiers returns the cascade for the available components, in priority
// order. A nil component leaves its tier out.
func DefaultTiers(kb *rules.KnowledgeBase, index *patterns.Index, models *textmodel.Registry) []Tier {
	var tiers []Tier
	if kb != nil {
		tiers = append(tiers, RuleTier(kb))
	}
	if index != nil {
		tiers = append(tiers, PatternTier(index))
	}
	tiers = append(tiers, FeatureTier())
	if models != nil {
		tiers = append(tiers, ModelTier(models))
	}
	return tiers
}

type ruleTier struct {
	kb *rules.KnowledgeBase
}

// RuleTier answers from the rule knowledge base whenever it has an opinion.
func RuleTier(kb *rules.KnowledgeBase) Tier {
	return ruleTier{kb: kb}
}

func (ruleTier) Name() decision.Method { return decision.MethodRuleKnowledge }

func (t ruleTier) Classify(in Input) (decision.Result, bool) {
	fixable, known := t.kb.IsKnownFixable(in.Linter, in.RuleID).Value()
	if !known {
		return decision.Result{}, false
	}
	errorType := "unknown"
	reason := fmt.Sprintf("%s %s", in.Linter, in.RuleID)
	if r, ok := t.kb.Lookup(in.Linter, in.RuleID); ok {
		if r.Category != "" {
			errorType = r.Category
		}
		reason = fmt.Sprintf("%s (%s)", reason, r.Source)
	}
	return decision.Result{
		Fixable:    fixable,
		Confidence: RuleConfidence,
		Method:     decision.MethodRuleKnowledge,
		ErrorType:  errorType,
		Reason:     reason,
	}, true
}

type patternTier struct {
	index *patterns.Index
}

// PatternTier answers with the best matching pattern above PatternThreshold.
func PatternTier(index *patterns.Index) Tier {
	return patternTier{index: index}
}

func (patternTier) Name() decision.Method { return decision.MethodPatternMatch }

func (t patternTier) Classify(in Input) (decision.Result, bool) {
	p, ok := t.index.BestMatch(in.Message, in.Language)
	if !ok || p.Confidence <= PatternThreshold {
		return decision.Result{}, false
	}
	return decision.Result{
		Fixable:        p.Fixable,
		Confidence:     p.Confidence,
		Method:         decision.MethodPatternMatch,
		ErrorType:      p.ErrorType,
		MatchedPattern: p.Pattern,
		Reason:         p.Description,
	}, true
}

type featureTier struct{}

// FeatureTier answers with the heuristic feature score above FeatureThreshold.
func FeatureTier() Tier {
	return featureTier{}
}

func (featureTier) Name() decision.Method { return decision.MethodFeatureAnalysis }

func (featureTier) Classify(in Input) (decision.Result, bool) {
	r := features.ClassifyByFeatures(features.Extract(in.Message, in.Language, in.Linter, in.RuleID))
	if r.Confidence <= FeatureThreshold {
		return decision.Result{}, false
	}
	return r, true
}

type modelTier struct {
	models *textmodel.Registry
}

// ModelTier answers from the language's trained model. Languages without a
// model, and inference errors, are misses.
func ModelTier(models *textmodel.Registry) Tier {
	return modelTier{models: models}
}

func (modelTier) Name() decision.Method { return decision.MethodMLPrediction }

func (t modelTier) Classify(in Input) (decision.Result, bool) {
	fixable, confidence, err := t.models.Predict(in.Language, in.Message)
	if err != nil {
		return decision.Result{}, false
	}
	return decision.Result{
		Fixable:    fixable,
		Confidence: confidence,
		Method:     decision.MethodMLPrediction,
		ErrorType:  "predicted",
	}, true
}
