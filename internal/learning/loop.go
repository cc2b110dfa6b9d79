package learning

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lintfix/internal/patterns"
	"github.com/fyrsmithlabs/lintfix/internal/textmodel"
	"github.com/fyrsmithlabs/lintfix/internal/textnorm"
)

const instrumentationName = "github.com/fyrsmithlabs/lintfix/internal/learning"

// Loop applies fix outcomes to the training store, the language models and
// the pattern index. It is the only writer of those after startup.
type Loop struct {
	store        *TrainingStore
	models       *textmodel.Registry
	index        *patterns.Index
	patternStore *patterns.FileStore
	logger       *zap.Logger
	onChange     func()
	now          func() time.Time

	tracer         trace.Tracer
	meter          metric.Meter
	outcomeCounter metric.Int64Counter

	mu sync.Mutex
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLogger sets the loop logger.
func WithLogger(l *zap.Logger) LoopOption {
	return func(loop *Loop) {
		if l != nil {
			loop.logger = l
		}
	}
}

// WithOnChange registers a callback run after every recorded outcome.
func WithOnChange(fn func()) LoopOption {
	return func(loop *Loop) {
		loop.onChange = fn
	}
}

// WithClock overrides time.Now for example timestamps.
func WithClock(now func() time.Time) LoopOption {
	return func(loop *Loop) {
		if now != nil {
			loop.now = now
		}
	}
}

// WithInstrumentation resolves the loop tracer and meter from explicit
// providers instead of the global ones.
func WithInstrumentation(tp trace.TracerProvider, mp metric.MeterProvider) LoopOption {
	return func(loop *Loop) {
		if tp != nil {
			loop.tracer = tp.Tracer(instrumentationName)
		}
		if mp != nil {
			loop.meter = mp.Meter(instrumentationName)
		}
	}
}

// NewLoop wires a learning loop. models may be nil when the ML tier is
// disabled; patternStore may be nil to keep learned patterns in memory only.
func NewLoop(store *TrainingStore, models *textmodel.Registry, index *patterns.Index, patternStore *patterns.FileStore, opts ...LoopOption) *Loop {
	l := &Loop{
		store:        store,
		models:       models,
		index:        index,
		patternStore: patternStore,
		logger:       zap.NewNop(),
		now:          time.Now,
		tracer:       otel.Tracer(instrumentationName),
		meter:        otel.Meter(instrumentationName),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.initMetrics()
	return l
}

func (l *Loop) initMetrics() {
	var err error
	l.outcomeCounter, err = l.meter.Int64Counter(
		"lintfix.learning.outcomes_total",
		metric.WithDescription("Total number of fix outcomes recorded"),
		metric.WithUnit("{outcome}"),
	)
	if err != nil {
		l.logger.Warn("failed to create outcome counter", zap.Error(err))
	}
}

// RecordOutcome applies o and logs any failure. It never fails the caller.
func (l *Loop) RecordOutcome(ctx context.Context, o Outcome) {
	if _, err := l.Record(ctx, o); err != nil {
		l.logger.Warn("failed to record outcome",
			zap.String("language", o.Language),
			zap.String("linter", o.Linter),
			zap.Error(err),
		)
	}
}

// Record applies o: append and trim the example set, refit the language
// model, mine a pattern from successful fixes and reinforce matching
// patterns. Steps after the append run even when an earlier one fails; all
// failures are returned together.
func (l *Loop) Record(ctx context.Context, o Outcome) (Report, error) {
	ctx, span := l.tracer.Start(ctx, "learning.record_outcome")
	defer span.End()

	lang := textnorm.Language(o.Language)
	span.SetAttributes(
		attribute.String("language", lang),
		attribute.String("linter", o.Linter),
		attribute.Bool("fixable", o.Fixable),
	)

	if err := o.Validate(); err != nil {
		span.RecordError(err)
		return Report{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var report Report
	count, err := l.store.Append(NewExample(o.Message, lang, o.Linter, o.Fixable, l.now()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}
	report.Examples = count

	var errs error
	if l.models != nil && count >= l.models.MinExamples() {
		trained, err := l.models.Retrain(lang, Documents(l.store.All(lang)))
		errs = multierr.Append(errs, err)
		report.Retrained = trained
	}

	if l.index != nil {
		mined, reinforced, err := l.updatePatterns(lang, o)
		errs = multierr.Append(errs, err)
		report.MinedPattern = mined
		report.Reinforced = reinforced
	}

	if l.outcomeCounter != nil {
		l.outcomeCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("language", lang),
			attribute.Bool("fixable", o.Fixable),
		))
	}
	if l.onChange != nil {
		l.onChange()
	}

	if errs != nil {
		span.RecordError(errs)
		span.SetStatus(codes.Error, errs.Error())
	}

	l.logger.Debug("recorded outcome",
		zap.String("language", lang),
		zap.String("linter", o.Linter),
		zap.Bool("fixable", o.Fixable),
		zap.Int("examples", report.Examples),
		zap.Bool("retrained", report.Retrained),
		zap.String("mined_pattern", report.MinedPattern),
		zap.Int("reinforced", report.Reinforced),
	)
	return report, errs
}

// updatePatterns reinforces existing patterns, then appends a newly mined
// one, and rebuilds the language index once if anything changed. The mined
// pattern is not reinforced by the outcome that produced it.
func (l *Loop) updatePatterns(lang string, o Outcome) (string, int, error) {
	current := l.index.Patterns(lang)
	next, reinforced := Reinforce(current, o.Message, o.Linter, o.Fixable)

	var mined string
	if o.Fixable {
		if phrase, ok := MinePhrase(o.Message); ok && !hasPatternText(next, phrase) {
			next = append(next, minedPattern(phrase, lang, o.Linter))
			mined = phrase
		}
	}

	if reinforced == 0 && mined == "" {
		return "", 0, nil
	}

	l.index.Build(lang, next)
	if mined != "" {
		l.logger.Info("mined pattern", zap.String("language", lang), zap.String("pattern", mined))
	}

	if l.patternStore == nil {
		return mined, reinforced, nil
	}
	return mined, reinforced, l.patternStore.Save(lang, next)
}

// Documents converts examples into model training documents.
func Documents(examples []Example) []textmodel.Document {
	docs := make([]textmodel.Document, len(examples))
	for i, ex := range examples {
		docs[i] = textmodel.Document{Text: ex.Message, Fixable: ex.Fixable}
	}
	return docs
}
