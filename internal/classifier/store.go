package classifier

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lintfix/internal/config"
	"github.com/fyrsmithlabs/lintfix/internal/decision"
	"github.com/fyrsmithlabs/lintfix/internal/learning"
	"github.com/fyrsmithlabs/lintfix/internal/lifecycle"
	"github.com/fyrsmithlabs/lintfix/internal/patterns"
	"github.com/fyrsmithlabs/lintfix/internal/rules"
	"github.com/fyrsmithlabs/lintfix/internal/textmodel"
)

// Store owns every component for one cache directory. Callers that share a
// cache directory share a Store; there is no process-wide state besides
// metrics.
type Store struct {
	cfg    *config.Config
	logger *zap.Logger

	index        *patterns.Index
	patternStore *patterns.FileStore
	rules        *rules.KnowledgeBase
	models       *textmodel.Registry // nil when ML is disabled
	training     *learning.TrainingStore
	loop         *learning.Loop
	lifecycle    *lifecycle.Manager
	engine       *Engine

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Open loads the knowledge under cfg.Cache.Dir and starts the rule feed
// watcher when configured. Missing or corrupt files degrade to defaults and
// are logged; only an invalid config or an unusable cache directory fail.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := os.MkdirAll(cfg.Cache.Dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", cfg.Cache.Dir, err)
	}

	s := &Store{
		cfg:          cfg,
		logger:       logger,
		patternStore: patterns.NewFileStore(cfg.PatternsDir()),
		rules:        rules.NewKnowledgeBase(logger.Named("rules")),
		training:     learning.NewTrainingStore(cfg.TrainingDir(), cfg.Learning.MaxExamples, logger.Named("training")),
	}

	var indexOpts []patterns.Option
	if cfg.Matcher.DisableAutomaton {
		indexOpts = append(indexOpts, patterns.WithLinearScan())
	}
	s.index = patterns.NewIndex(indexOpts...)
	s.loadPatterns()
	s.loadFeed()

	if !cfg.ML.Disable {
		s.models = textmodel.NewRegistry(cfg.ModelsDir(),
			textmodel.WithLogger(logger.Named("models")),
			textmodel.WithMinExamples(cfg.ML.MinExamples),
			textmodel.WithMaxFeatures(cfg.ML.MaxFeatures),
		)
		if err := s.models.Load(); err != nil {
			logger.Warn("failed to load language models", zap.Error(err))
		}
	}

	engine, err := NewEngine(DefaultTiers(s.rules, s.index, s.models),
		WithLogger(logger.Named("engine")),
		WithCacheSize(cfg.Classifier.CacheSize),
	)
	if err != nil {
		return nil, err
	}
	s.engine = engine

	s.loop = learning.NewLoop(s.training, s.models, s.index, s.patternStore,
		learning.WithLogger(logger.Named("learning")),
		learning.WithOnChange(engine.Purge),
	)
	s.lifecycle = lifecycle.NewManager(cfg.Cache.Dir, s.training, s.models, s.patternStore,
		lifecycle.WithLogger(logger.Named("lifecycle")),
		lifecycle.WithAutoInterval(cfg.Cleanup.AutoInterval.Duration()),
	)

	if !cfg.Cleanup.DisableAuto {
		ran, err := s.lifecycle.MaybeAutoCleanup(cfg.Cleanup.MaxAgeDays)
		if err != nil {
			logger.Warn("automatic cleanup failed", zap.Error(err))
		}
		if ran {
			engine.Purge()
		}
	}

	watchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	if cfg.Rules.Watch {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.rules.WatchFeed(watchCtx, cfg.FeedPath(), engine.Purge); err != nil {
				logger.Warn("rule feed watcher stopped", zap.Error(err))
			}
		}()
	}

	logger.Debug("opened classifier store",
		zap.String("cache_dir", cfg.Cache.Dir),
		zap.Any("tiers", engine.Tiers()),
		zap.Int("rules", s.rules.Count()),
	)
	return s, nil
}

// loadPatterns builds every language from the seeds, then the user's custom
// file, then the persisted learned lists, later sources winning per
// (linter, text).
func (s *Store) loadPatterns() {
	layers := []map[string][]patterns.ErrorPattern{patterns.DefaultPatterns()}

	custom, err := patterns.LoadCustomPatterns(s.cfg.Patterns.CustomPath, s.logger)
	switch {
	case err == nil:
		layers = append(layers, custom)
	case errors.Is(err, os.ErrNotExist):
	default:
		s.logger.Warn("ignoring custom patterns", zap.String("path", s.cfg.Patterns.CustomPath), zap.Error(err))
	}
	layers = append(layers, s.patternStore.LoadAll(s.logger))

	merged := make(map[string][]patterns.ErrorPattern)
	for _, layer := range layers {
		for lang, list := range layer {
			merged[lang] = patterns.Merge(merged[lang], list)
		}
	}
	for lang, list := range merged {
		s.index.Build(lang, list)
	}
}

func (s *Store) loadFeed() {
	path := s.cfg.FeedPath()
	stats, err := s.rules.LoadFeed(path)
	switch {
	case err == nil:
		s.logger.Debug("loaded rule feed",
			zap.String("path", path),
			zap.Int("loaded", stats.Loaded),
			zap.Int("rejected", stats.Rejected),
		)
	case errors.Is(err, os.ErrNotExist):
	default:
		s.logger.Warn("ignoring rule feed", zap.String("path", path), zap.Error(err))
	}
}

// Classify decides whether one lint error is automatically fixable. It never
// fails.
func (s *Store) Classify(message, language, linter, ruleID string) decision.Result {
	return s.engine.Classify(message, language, linter, ruleID)
}

// RecordOutcome feeds the result of a fix attempt back into the store.
// Failures are logged, never returned.
func (s *Store) RecordOutcome(ctx context.Context, o learning.Outcome) {
	s.loop.RecordOutcome(ctx, o)
}

// Record is RecordOutcome returning what changed and any failure.
func (s *Store) Record(ctx context.Context, o learning.Outcome) (learning.Report, error) {
	return s.loop.Record(ctx, o)
}

// Statistics summarizes the store's knowledge.
type Statistics struct {
	CacheDir        string               `json:"cache_dir"`
	Tiers           []decision.Method    `json:"tiers"`
	Matcher         string               `json:"matcher"`
	MLAvailable     bool                 `json:"ml_available"`
	Rules           int                  `json:"rules"`
	RuleLinters     []string             `json:"rule_linters"`
	Patterns        map[string]int       `json:"patterns"`
	Examples        map[string]int       `json:"examples"`
	Models          map[string]int       `json:"models"`
	CachedDecisions int                  `json:"cached_decisions"`
	Disk            lifecycle.SizeReport `json:"disk"`
}

// Statistics reports counts per component and disk usage.
func (s *Store) Statistics() Statistics {
	st := Statistics{
		CacheDir:        s.cfg.Cache.Dir,
		Tiers:           s.engine.Tiers(),
		Matcher:         "linear",
		Rules:           s.rules.Count(),
		RuleLinters:     s.rules.Linters(),
		Patterns:        s.index.Counts(),
		Examples:        s.training.Counts(),
		Models:          map[string]int{},
		CachedDecisions: s.engine.CachedDecisions(),
		Disk:            s.lifecycle.SizeReport(),
	}
	if s.index.MatcherAvailable() {
		st.Matcher = "aho-corasick"
	}
	if s.models != nil {
		st.MLAvailable = true
		st.Models = s.models.TrainedCounts()
	}
	return st
}

// Export writes the successful messages of every language to path.
func (s *Store) Export(path string) (lifecycle.ExportDocument, error) {
	return s.lifecycle.Export(path)
}

// Import replays an export into this store and retrains affected languages.
func (s *Store) Import(path string) (lifecycle.ImportReport, error) {
	defer s.engine.Purge()
	return s.lifecycle.Import(path)
}

// Cleanup drops examples older than maxAgeDays and the models they orphan.
func (s *Store) Cleanup(maxAgeDays int) (lifecycle.CleanupReport, error) {
	defer s.engine.Purge()
	return s.lifecycle.CleanupOldData(maxAgeDays)
}

// Close stops the feed watcher.
func (s *Store) Close() error {
	s.cancel()
	s.wg.Wait()
	return nil
}
