package lifecycle

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lintfix/internal/cachefs"
	"github.com/fyrsmithlabs/lintfix/internal/learning"
	"github.com/fyrsmithlabs/lintfix/internal/textnorm"
)

const (
	// ExportVersion is the version of the export document.
	ExportVersion = 1

	// MaxExportedMessages bounds the successful messages exported per
	// language.
	MaxExportedMessages = 100

	// ImportedLinter tags examples replayed from an export.
	ImportedLinter = "imported"
)

// ErrInvalidExport is returned when an export document cannot be decoded.
var ErrInvalidExport = errors.New("invalid export document")

// ExportDocument is the portable summary of a cache.
type ExportDocument struct {
	Version    int                       `json:"version"`
	ID         string                    `json:"id"`
	ExportedAt time.Time                 `json:"exported_at"`
	Languages  map[string]LanguageExport `json:"languages"`
}

// LanguageExport summarizes one language.
type LanguageExport struct {
	ExampleCount       int       `json:"example_count"`
	SuccessfulMessages []string  `json:"successful_messages"`
	LastUpdated        time.Time `json:"last_updated"`
}

// Export writes the successful messages of every language to path.
func (m *Manager) Export(path string) (ExportDocument, error) {
	doc := ExportDocument{
		Version:    ExportVersion,
		ID:         uuid.NewString(),
		ExportedAt: m.now().UTC(),
		Languages:  make(map[string]LanguageExport),
	}

	for _, lang := range m.store.Languages() {
		examples := m.store.All(lang)
		var successful []string
		var last time.Time
		for _, ex := range examples {
			if ex.Timestamp.After(last) {
				last = ex.Timestamp
			}
			if ex.Fixable {
				successful = append(successful, ex.Message)
			}
		}
		if len(successful) > MaxExportedMessages {
			successful = successful[len(successful)-MaxExportedMessages:]
		}
		doc.Languages[lang] = LanguageExport{
			ExampleCount:       len(examples),
			SuccessfulMessages: successful,
			LastUpdated:        last,
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return ExportDocument{}, fmt.Errorf("failed to marshal export: %w", err)
	}
	if err := cachefs.WriteFileAtomic(path, data); err != nil {
		return ExportDocument{}, err
	}
	_ = os.Remove(path + cachefs.PrevSuffix)

	m.logger.Info("exported learning data", zap.String("path", path), zap.Int("languages", len(doc.Languages)))
	return doc, nil
}

// ImportReport summarizes one import.
type ImportReport struct {
	Imported  map[string]int `json:"imported"`
	Retrained []string       `json:"retrained,omitempty"`
}

// Import replays the successful messages of the document at path as new
// fixable examples tagged with the "imported" linter, refits the models of
// the affected languages and reloads the model registry.
func (m *Manager) Import(path string) (ImportReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportReport{}, fmt.Errorf("failed to read export %s: %w", path, err)
	}
	var doc ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return ImportReport{}, fmt.Errorf("%w: %v", ErrInvalidExport, err)
	}
	if doc.Version != ExportVersion {
		return ImportReport{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidExport, doc.Version)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	report := ImportReport{Imported: make(map[string]int)}
	now := m.now()
	var errs error
	for _, lang := range sortedKeys(doc.Languages) {
		key := textnorm.Language(lang)
		msgs := doc.Languages[lang].SuccessfulMessages
		if key == "" || len(msgs) == 0 {
			continue
		}

		examples := m.store.All(key)
		for _, msg := range msgs {
			if msg == "" {
				continue
			}
			examples = append(examples, learning.NewExample(msg, key, ImportedLinter, true, now))
			report.Imported[key]++
		}
		if err := m.store.Replace(key, examples); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}

		if m.models == nil {
			continue
		}
		trained, err := m.models.Retrain(key, learning.Documents(m.store.All(key)))
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if trained {
			report.Retrained = append(report.Retrained, key)
		}
	}

	if m.models != nil {
		errs = multierr.Append(errs, m.models.Reload())
	}

	m.logger.Info("imported learning data",
		zap.String("path", path),
		zap.Any("imported", report.Imported),
		zap.Strings("retrained", report.Retrained),
		zap.Error(errs),
	)
	return report, errs
}
