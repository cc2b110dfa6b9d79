package patterns

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lintfix/internal/cachefs"
	"github.com/fyrsmithlabs/lintfix/internal/textnorm"
)

// ErrInvalidTOML indicates the custom pattern file could not be parsed.
var ErrInvalidTOML = errors.New("invalid pattern TOML")

// LoadCustomPatterns reads user-supplied patterns from a TOML file of the form:
//
//	[[pattern]]
//	pattern = "prefer f-string"
//	language = "python"
//	linter = "pylint"
//	error_type = "style"
//	fixable = true
//	confidence = 0.8
//
// Entries without text or language, or with a confidence outside [0, 1], are
// skipped and logged. A missing file returns an error wrapping os.ErrNotExist.
func LoadCustomPatterns(path string, logger *zap.Logger) (map[string][]ErrorPattern, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	var file struct {
		Pattern []ErrorPattern `toml:"pattern"`
	}
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTOML, path, err)
	}

	out := make(map[string][]ErrorPattern)
	for i, p := range file.Pattern {
		lang := textnorm.Language(p.Language)
		if strings.TrimSpace(p.Pattern) == "" || lang == "" {
			logger.Warn("skipping custom pattern without text or language",
				zap.String("file", path), zap.Int("index", i))
			continue
		}
		if p.Confidence < 0 || p.Confidence > 1 {
			logger.Warn("skipping custom pattern with confidence out of range",
				zap.String("file", path), zap.String("pattern", p.Pattern), zap.Float64("confidence", p.Confidence))
			continue
		}
		p.Language = lang
		out[lang] = append(out[lang], p)
	}
	return out, nil
}

// Merge overlays additions on base. An addition replaces the base pattern
// with the same linter and text in place; new patterns are appended in order.
func Merge(base, additions []ErrorPattern) []ErrorPattern {
	out := make([]ErrorPattern, len(base), len(base)+len(additions))
	copy(out, base)

	pos := make(map[string]int, len(out))
	for i, p := range out {
		pos[p.Key()] = i
	}
	for _, p := range additions {
		if i, ok := pos[p.Key()]; ok {
			out[i] = p
			continue
		}
		pos[p.Key()] = len(out)
		out = append(out, p)
	}
	return out
}

// languageFile is the persisted form of one language's pattern list.
type languageFile struct {
	Language string         `json:"language"`
	Patterns []ErrorPattern `json:"patterns"`
}

// FileStore persists each language's full pattern list under dir so learned
// patterns and reinforced confidences survive restarts.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the store directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(language string) (string, error) {
	name, err := cachefs.SafeName(language)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name+".json"), nil
}

// Save writes the pattern list for language.
func (s *FileStore) Save(language string, patterns []ErrorPattern) error {
	path, err := s.path(language)
	if err != nil {
		return err
	}
	return cachefs.WriteJSON(path, languageFile{Language: textnorm.Language(language), Patterns: patterns})
}

// LoadAll reads every persisted language. Unreadable files are skipped and
// logged; the seeds stay in effect for those languages.
func (s *FileStore) LoadAll(logger *zap.Logger) map[string][]ErrorPattern {
	if logger == nil {
		logger = zap.NewNop()
	}
	out := make(map[string][]ErrorPattern)

	stems, err := cachefs.List(s.dir, ".json")
	if err != nil {
		logger.Warn("failed to list pattern files", zap.String("dir", s.dir), zap.Error(err))
		return out
	}
	for _, stem := range stems {
		var f languageFile
		if err := cachefs.ReadJSON(filepath.Join(s.dir, stem+".json"), &f); err != nil {
			logger.Warn("skipping unreadable pattern file", zap.String("language", stem), zap.Error(err))
			continue
		}
		if f.Language == "" {
			f.Language = stem
		}
		out[f.Language] = f.Patterns
	}
	return out
}

// Size returns the bytes used by the pattern files.
func (s *FileStore) Size() int64 {
	stems, _ := cachefs.List(s.dir, ".json")
	var total int64
	for _, stem := range stems {
		total += cachefs.Size(filepath.Join(s.dir, stem+".json"))
	}
	return total
}
