// Package lifecycle bounds the on-disk learning state: age-based cleanup with
// an orphan model sweep, size reporting, and export/import of successful fix
// messages between caches.
package lifecycle

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lintfix/internal/cachefs"
	"github.com/fyrsmithlabs/lintfix/internal/learning"
	"github.com/fyrsmithlabs/lintfix/internal/patterns"
	"github.com/fyrsmithlabs/lintfix/internal/textmodel"
)

const (
	// MarkerFile records the time of the last automatic cleanup.
	MarkerFile = ".last_cleanup"

	// AutoCleanupInterval is the default gap between automatic cleanups.
	AutoCleanupInterval = 24 * time.Hour
)

// ErrInvalidMaxAge is returned for negative cleanup ages.
var ErrInvalidMaxAge = errors.New("max age must not be negative")

// Manager owns cleanup, reporting and export for one cache directory.
type Manager struct {
	root         string
	store        *learning.TrainingStore
	models       *textmodel.Registry
	patternStore *patterns.FileStore
	logger       *zap.Logger
	now          func() time.Time
	autoInterval time.Duration

	mu sync.Mutex
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithAutoInterval overrides AutoCleanupInterval.
func WithAutoInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.autoInterval = d
		}
	}
}

// NewManager creates a manager for the cache rooted at root. patternStore
// may be nil.
func NewManager(root string, store *learning.TrainingStore, models *textmodel.Registry, patternStore *patterns.FileStore, opts ...Option) *Manager {
	m := &Manager{
		root:         root,
		store:        store,
		models:       models,
		patternStore: patternStore,
		logger:       zap.NewNop(),
		now:          time.Now,
		autoInterval: AutoCleanupInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CleanupReport summarizes one cleanup run.
type CleanupReport struct {
	ExamplesRemoved  int      `json:"examples_removed"`
	LanguagesEmptied []string `json:"languages_emptied,omitempty"`
	OrphansRemoved   []string `json:"orphans_removed,omitempty"`
}

// CleanupOldData drops examples older than maxAgeDays, then deletes model
// artifacts whose language has no examples left. maxAgeDays of 0 removes
// every example recorded before now. Failures on individual files do not
// stop the run; they are returned together.
func (m *Manager) CleanupOldData(maxAgeDays int) (CleanupReport, error) {
	if maxAgeDays < 0 {
		return CleanupReport{}, ErrInvalidMaxAge
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-time.Duration(maxAgeDays) * 24 * time.Hour)
	var report CleanupReport
	var errs error

	for _, lang := range m.store.Languages() {
		examples := m.store.All(lang)
		kept := examples[:0:0]
		for _, ex := range examples {
			if ex.Timestamp.After(cutoff) {
				kept = append(kept, ex)
			}
		}
		removed := len(examples) - len(kept)
		if removed == 0 {
			continue
		}
		if err := m.store.Replace(lang, kept); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		report.ExamplesRemoved += removed
		if len(kept) == 0 {
			report.LanguagesEmptied = append(report.LanguagesEmptied, lang)
		}
	}

	orphans, err := m.sweepOrphans()
	errs = multierr.Append(errs, err)
	report.OrphansRemoved = orphans

	m.logger.Info("cleaned up learning data",
		zap.Int("max_age_days", maxAgeDays),
		zap.Int("examples_removed", report.ExamplesRemoved),
		zap.Strings("languages_emptied", report.LanguagesEmptied),
		zap.Strings("orphans_removed", report.OrphansRemoved),
		zap.Error(errs),
	)
	return report, errs
}

// sweepOrphans removes model artifacts for languages without examples.
func (m *Manager) sweepOrphans() ([]string, error) {
	if m.models == nil {
		return nil, nil
	}
	live := make(map[string]bool)
	for _, lang := range m.store.Languages() {
		if name, err := cachefs.SafeName(lang); err == nil {
			live[name] = true
		}
	}

	stems, err := m.models.ArtifactStems()
	if err != nil {
		return nil, err
	}
	var removed []string
	var errs error
	for _, stem := range stems {
		if live[stem] {
			continue
		}
		if err := m.models.RemoveStem(stem); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		removed = append(removed, stem)
	}
	return removed, errs
}

// LanguageSize is the disk usage of one language.
type LanguageSize struct {
	TrainingBytes int64 `json:"training_bytes"`
	ModelBytes    int64 `json:"model_bytes"`
}

// SizeReport is the disk usage of the cache.
type SizeReport struct {
	TrainingBytes int64                   `json:"training_bytes"`
	ModelBytes    int64                   `json:"model_bytes"`
	PatternBytes  int64                   `json:"pattern_bytes"`
	Total         int64                   `json:"total_bytes"`
	PerLanguage   map[string]LanguageSize `json:"per_language"`
}

// SizeReport measures the training, model and pattern files.
func (m *Manager) SizeReport() SizeReport {
	r := SizeReport{
		TrainingBytes: m.store.Size(),
		PerLanguage:   make(map[string]LanguageSize),
	}
	if m.models != nil {
		r.ModelBytes = m.models.Size()
	}
	if m.patternStore != nil {
		r.PatternBytes = m.patternStore.Size()
	}
	r.Total = r.TrainingBytes + r.ModelBytes + r.PatternBytes

	langs := m.store.Languages()
	if m.models != nil {
		langs = append(langs, m.models.Languages()...)
	}
	for _, lang := range langs {
		ls := LanguageSize{TrainingBytes: m.store.SizeOf(lang)}
		if m.models != nil {
			ls.ModelBytes = m.models.SizeOf(lang)
		}
		r.PerLanguage[lang] = ls
	}
	return r
}

// MaybeAutoCleanup runs CleanupOldData unless the marker file shows a run
// within the auto-cleanup interval. It reports whether a cleanup ran.
func (m *Manager) MaybeAutoCleanup(maxAgeDays int) (bool, error) {
	marker := filepath.Join(m.root, MarkerFile)
	now := m.now()

	if data, err := os.ReadFile(marker); err == nil {
		last, perr := time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
		if perr == nil && now.Sub(last) < m.autoInterval && !last.After(now) {
			return false, nil
		}
	}

	_, err := m.CleanupOldData(maxAgeDays)
	if werr := os.MkdirAll(m.root, 0700); werr != nil {
		return true, multierr.Append(err, werr)
	}
	werr := os.WriteFile(marker, []byte(now.UTC().Format(time.RFC3339)), 0600)
	return true, multierr.Append(err, werr)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
