package learning

import (
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lintfix/internal/cachefs"
	"github.com/fyrsmithlabs/lintfix/internal/textnorm"
)

// trainingFile is the on-disk form of one language's examples.
type trainingFile struct {
	Language string    `json:"language"`
	Examples []Example `json:"examples"`
}

// TrainingStore persists examples per language, oldest first, one file per
// language.
type TrainingStore struct {
	dir    string
	limit  int
	logger *zap.Logger

	mu     sync.RWMutex
	cache  map[string][]Example
	loaded bool
}

// NewTrainingStore creates a store under dir keeping at most limit examples
// per language. A non-positive limit uses DefaultMaxExamples.
func NewTrainingStore(dir string, limit int, logger *zap.Logger) *TrainingStore {
	if limit <= 0 {
		limit = DefaultMaxExamples
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainingStore{
		dir:    dir,
		limit:  limit,
		logger: logger,
		cache:  make(map[string][]Example),
	}
}

// Dir returns the training directory.
func (s *TrainingStore) Dir() string {
	return s.dir
}

// Limit returns the per-language cap.
func (s *TrainingStore) Limit() int {
	return s.limit
}

func (s *TrainingStore) path(language string) (string, error) {
	name, err := cachefs.SafeName(language)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name+".json"), nil
}

// scanLocked reads every training file once. Unreadable files count as
// empty.
func (s *TrainingStore) scanLocked() {
	if s.loaded {
		return
	}
	s.loaded = true

	stems, err := cachefs.List(s.dir, ".json")
	if err != nil {
		s.logger.Warn("failed to list training files", zap.String("dir", s.dir), zap.Error(err))
		return
	}
	for _, stem := range stems {
		var f trainingFile
		if err := cachefs.ReadJSON(filepath.Join(s.dir, stem+".json"), &f); err != nil {
			s.logger.Warn("ignoring unreadable training file", zap.String("file", stem), zap.Error(err))
			continue
		}
		lang := textnorm.Language(f.Language)
		if lang == "" {
			lang = stem
		}
		s.cache[lang] = f.Examples
	}
}

func (s *TrainingStore) writeLocked(language string, examples []Example) error {
	path, err := s.path(language)
	if err != nil {
		return err
	}
	if len(examples) == 0 {
		delete(s.cache, language)
		return cachefs.Remove(path)
	}
	if err := cachefs.WriteJSON(path, trainingFile{Language: language, Examples: examples}); err != nil {
		return err
	}
	s.cache[language] = examples
	return nil
}

func (s *TrainingStore) trim(examples []Example) []Example {
	if len(examples) > s.limit {
		examples = examples[len(examples)-s.limit:]
	}
	return append([]Example(nil), examples...)
}

// Append adds ex to its language, drops the oldest examples beyond the cap,
// persists, and returns the stored count.
func (s *TrainingStore) Append(ex Example) (int, error) {
	lang := textnorm.Language(ex.Language)
	if lang == "" {
		return 0, ErrInvalidOutcome
	}
	ex.Language = lang

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scanLocked()

	next := s.trim(append(append([]Example(nil), s.cache[lang]...), ex))
	if err := s.writeLocked(lang, next); err != nil {
		return 0, err
	}
	return len(next), nil
}

// All returns a copy of the examples for language, oldest first.
func (s *TrainingStore) All(language string) []Example {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scanLocked()
	return append([]Example(nil), s.cache[textnorm.Language(language)]...)
}

// Replace overwrites the examples for language. An empty list removes the
// language.
func (s *TrainingStore) Replace(language string, examples []Example) error {
	lang := textnorm.Language(language)
	if lang == "" {
		return ErrInvalidOutcome
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scanLocked()
	return s.writeLocked(lang, s.trim(examples))
}

// Remove deletes every example for language.
func (s *TrainingStore) Remove(language string) error {
	return s.Replace(language, nil)
}

// Languages returns the languages holding at least one example, sorted.
func (s *TrainingStore) Languages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scanLocked()
	out := make([]string, 0, len(s.cache))
	for lang, ex := range s.cache {
		if len(ex) > 0 {
			out = append(out, lang)
		}
	}
	sort.Strings(out)
	return out
}

// Counts returns the example count per language.
func (s *TrainingStore) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scanLocked()
	out := make(map[string]int, len(s.cache))
	for lang, ex := range s.cache {
		out[lang] = len(ex)
	}
	return out
}

// SizeOf returns the bytes used by the training file of language.
func (s *TrainingStore) SizeOf(language string) int64 {
	path, err := s.path(language)
	if err != nil {
		return 0
	}
	return cachefs.Size(path)
}

// Size returns the bytes used by every training file.
func (s *TrainingStore) Size() int64 {
	stems, _ := cachefs.List(s.dir, ".json")
	var total int64
	for _, stem := range stems {
		total += cachefs.Size(filepath.Join(s.dir, stem+".json"))
	}
	return total
}
