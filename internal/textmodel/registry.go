package textmodel

import (
	"errors"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lintfix/internal/cachefs"
	"github.com/fyrsmithlabs/lintfix/internal/textnorm"
)

// DefaultMinExamples is the smallest training set a model is fit on.
const DefaultMinExamples = 5

const (
	vectorizerSuffix = ".vectorizer.json"
	classifierSuffix = ".classifier.json"
)

// Registry holds one model per language and keeps the models directory in
// sync with it.
type Registry struct {
	dir         string
	logger      *zap.Logger
	minExamples int
	maxFeatures int

	mu     sync.RWMutex
	models map[string]*Model
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMinExamples overrides DefaultMinExamples.
func WithMinExamples(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.minExamples = n
		}
	}
}

// WithMaxFeatures overrides DefaultMaxFeatures.
func WithMaxFeatures(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.maxFeatures = n
		}
	}
}

// NewRegistry creates an empty registry persisting under dir. Call Load to
// pick up existing artifacts.
func NewRegistry(dir string, opts ...Option) *Registry {
	r := &Registry{
		dir:         dir,
		logger:      zap.NewNop(),
		minExamples: DefaultMinExamples,
		maxFeatures: DefaultMaxFeatures,
		models:      make(map[string]*Model),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dir returns the models directory.
func (r *Registry) Dir() string {
	return r.dir
}

// MinExamples returns the training threshold.
func (r *Registry) MinExamples() int {
	return r.minExamples
}

func (r *Registry) paths(language string) (vec, cls string, err error) {
	name, err := cachefs.SafeName(language)
	if err != nil {
		return "", "", err
	}
	return filepath.Join(r.dir, name+vectorizerSuffix), filepath.Join(r.dir, name+classifierSuffix), nil
}

// Load reads every artifact pair in the models directory. Unreadable pairs
// are logged and skipped; that language simply has no model.
func (r *Registry) Load() error {
	stems, err := cachefs.List(r.dir, classifierSuffix)
	if err != nil {
		return err
	}

	loaded := make(map[string]*Model, len(stems))
	for _, stem := range stems {
		m, err := r.readArtifact(stem)
		if err != nil {
			r.logger.Warn("skipping unreadable model artifact", zap.String("artifact", stem), zap.Error(err))
			continue
		}
		loaded[m.Language] = m
	}

	r.mu.Lock()
	r.models = loaded
	r.mu.Unlock()

	r.logger.Debug("loaded language models", zap.Int("count", len(loaded)))
	return nil
}

// Reload discards in-memory models and loads them again from disk.
func (r *Registry) Reload() error {
	return r.Load()
}

// readArtifact loads the pair stored under stem. A write interrupted between
// the two renames leaves halves from different trainings, so the current and
// previous copies are combined until both halves carry the same pair id.
func (r *Registry) readArtifact(stem string) (*Model, error) {
	vecPath := filepath.Join(r.dir, stem+vectorizerSuffix)
	clsPath := filepath.Join(r.dir, stem+classifierSuffix)
	prev := cachefs.PrevSuffix

	var first error
	for _, c := range [][2]string{
		{vecPath, clsPath},
		{vecPath + prev, clsPath},
		{vecPath, clsPath + prev},
		{vecPath + prev, clsPath + prev},
	} {
		m, err := readPair(c[0], c[1], stem)
		if err == nil {
			return m, nil
		}
		if first == nil {
			first = err
		}
	}
	return nil, first
}

func readPair(vecPath, clsPath, stem string) (*Model, error) {
	var a Artifact
	if err := cachefs.ReadEnvelope(vecPath, &a.Vectorizer); err != nil {
		return nil, err
	}
	if err := cachefs.ReadEnvelope(clsPath, &a.Classifier); err != nil {
		return nil, err
	}
	if a.Classifier.Language == "" {
		a.Classifier.Language = stem
		a.Vectorizer.Language = stem
	}
	return modelFromArtifact(a)
}

// Retrain refits the model for language from the complete example set and
// persists it. Below the minimum example count the language loses its model
// and false is returned.
func (r *Registry) Retrain(language string, docs []Document) (bool, error) {
	language = textnorm.Language(language)
	if len(docs) < r.minExamples {
		return false, r.Remove(language)
	}

	m, err := Train(language, docs, r.maxFeatures)
	if errors.Is(err, ErrEmptyVocabulary) {
		r.logger.Debug("no usable terms in training set", zap.String("language", language))
		return false, r.Remove(language)
	}
	if err != nil {
		return false, err
	}

	vecPath, clsPath, err := r.paths(language)
	if err != nil {
		return false, err
	}
	a := m.artifact()
	if err := cachefs.WriteJSON(vecPath, a.Vectorizer); err != nil {
		return false, err
	}
	if err := cachefs.WriteJSON(clsPath, a.Classifier); err != nil {
		return false, err
	}

	r.mu.Lock()
	r.models[language] = m
	r.mu.Unlock()

	r.logger.Info("retrained language model",
		zap.String("language", language),
		zap.Int("examples", len(docs)),
		zap.Int("vocabulary", m.Vectorizer.Dim()),
	)
	return true, nil
}

// Predict classifies message with the model for language.
func (r *Registry) Predict(language, message string) (bool, float64, error) {
	r.mu.RLock()
	m, ok := r.models[textnorm.Language(language)]
	r.mu.RUnlock()
	if !ok {
		return false, 0, ErrNoModel
	}
	return m.Predict(message)
}

// Has reports whether language has a trained model.
func (r *Registry) Has(language string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.models[textnorm.Language(language)]
	return ok
}

// Remove drops the model for language and deletes its artifacts.
func (r *Registry) Remove(language string) error {
	language = textnorm.Language(language)
	r.mu.Lock()
	delete(r.models, language)
	r.mu.Unlock()

	vecPath, clsPath, err := r.paths(language)
	if err != nil {
		return err
	}
	return multierr.Combine(cachefs.Remove(vecPath), cachefs.Remove(clsPath))
}

// Languages returns the languages with a loaded model, sorted.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.models))
	for lang := range r.models {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// TrainedCounts returns the training set size of every loaded model.
func (r *Registry) TrainedCounts() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int, len(r.models))
	for lang, m := range r.models {
		out[lang] = m.TrainedExamples
	}
	return out
}

// ArtifactStems returns the file stems of every artifact on disk, including
// half pairs left behind by an interrupted write.
func (r *Registry) ArtifactStems() ([]string, error) {
	seen := make(map[string]bool)
	for _, suffix := range []string{vectorizerSuffix, classifierSuffix} {
		stems, err := cachefs.List(r.dir, suffix)
		if err != nil {
			return nil, err
		}
		for _, s := range stems {
			seen[s] = true
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}

// RemoveStem deletes the artifacts stored under stem and drops any loaded
// model whose file name maps to it.
func (r *Registry) RemoveStem(stem string) error {
	r.mu.Lock()
	for lang := range r.models {
		if name, err := cachefs.SafeName(lang); err == nil && name == stem {
			delete(r.models, lang)
		}
	}
	r.mu.Unlock()

	return multierr.Combine(
		cachefs.Remove(filepath.Join(r.dir, stem+vectorizerSuffix)),
		cachefs.Remove(filepath.Join(r.dir, stem+classifierSuffix)),
	)
}

// SizeOf returns the bytes used by the artifacts of language.
func (r *Registry) SizeOf(language string) int64 {
	vecPath, clsPath, err := r.paths(language)
	if err != nil {
		return 0
	}
	return cachefs.Size(vecPath) + cachefs.Size(clsPath)
}

// Size returns the bytes used by every artifact on disk.
func (r *Registry) Size() int64 {
	stems, _ := r.ArtifactStems()
	var total int64
	for _, s := range stems {
		total += cachefs.Size(filepath.Join(r.dir, s+vectorizerSuffix))
		total += cachefs.Size(filepath.Join(r.dir, s+classifierSuffix))
	}
	return total
}
