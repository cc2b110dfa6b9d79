// Package textmodel provides the per-language text classifier: a TF-IDF
// vectorizer feeding a multinomial Naive Bayes model, refit from scratch on
// every retrain and persisted as a vectorizer/classifier artifact pair.
package textmodel

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
)

var (
	// ErrNoModel is returned when a language has no trained model.
	ErrNoModel = errors.New("no trained model for language")
	// ErrEmptyVector is returned when a message shares no term with the
	// model vocabulary.
	ErrEmptyVector = errors.New("message has no known terms")
	// ErrInvalidArtifact is returned for artifacts with inconsistent shapes.
	ErrInvalidArtifact = errors.New("invalid model artifact")
	// ErrPairMismatch is returned when the vectorizer and classifier halves
	// come from different trainings.
	ErrPairMismatch = errors.New("model artifact halves from different trainings")
)

// Document is one labelled training text.
type Document struct {
	Text    string
	Fixable bool
}

// Model is a trained classifier for one language.
type Model struct {
	// PairID stamps both persisted halves of one training.
	PairID          string
	Language        string
	Vectorizer      *Vectorizer
	Classifier      *NaiveBayes
	TrainedExamples int
	TrainedAt       time.Time
}

// Train fits a model on docs.
func Train(language string, docs []Document, maxFeatures int) (*Model, error) {
	if len(docs) == 0 {
		return nil, ErrNoExamples
	}
	texts := make([]string, len(docs))
	labels := make([]bool, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
		labels[i] = d.Fixable
	}

	vec, err := FitVectorizer(texts, maxFeatures)
	if err != nil {
		return nil, err
	}
	rows := make([][]float64, len(texts))
	for i, text := range texts {
		rows[i] = vec.Transform(text)
	}
	nb, err := FitNaiveBayes(rows, labels, DefaultAlpha)
	if err != nil {
		return nil, err
	}

	return &Model{
		PairID:          uuid.NewString(),
		Language:        language,
		Vectorizer:      vec,
		Classifier:      nb,
		TrainedExamples: len(docs),
		TrainedAt:       time.Now().UTC(),
	}, nil
}

// Predict classifies message. Confidence is the posterior of the returned
// class.
func (m *Model) Predict(message string) (bool, float64, error) {
	x := m.Vectorizer.Transform(message)
	if floats.Sum(x) == 0 {
		return false, 0, ErrEmptyVector
	}
	fixable, p, err := m.Classifier.Predict(x)
	if err != nil {
		return false, 0, fmt.Errorf("predict %s: %w", m.Language, err)
	}
	return fixable, p, nil
}

// Artifact is the persisted form of a model. The vectorizer and classifier
// halves are written to separate files.
type Artifact struct {
	Vectorizer vectorizerFile
	Classifier classifierFile
}

type vectorizerFile struct {
	PairID     string    `json:"pair_id"`
	Language   string    `json:"language"`
	Vocabulary []string  `json:"vocabulary"`
	IDF        []float64 `json:"idf"`
}

type classifierFile struct {
	PairID          string      `json:"pair_id"`
	Language        string      `json:"language"`
	TrainedExamples int         `json:"trained_example_count"`
	TrainedAt       time.Time   `json:"trained_at"`
	Model           *NaiveBayes `json:"model"`
}

func (m *Model) artifact() Artifact {
	return Artifact{
		Vectorizer: vectorizerFile{
			PairID:     m.PairID,
			Language:   m.Language,
			Vocabulary: m.Vectorizer.Vocabulary,
			IDF:        m.Vectorizer.IDF,
		},
		Classifier: classifierFile{
			PairID:          m.PairID,
			Language:        m.Language,
			TrainedExamples: m.TrainedExamples,
			TrainedAt:       m.TrainedAt,
			Model:           m.Classifier,
		},
	}
}

func modelFromArtifact(a Artifact) (*Model, error) {
	if a.Vectorizer.PairID == "" || a.Vectorizer.PairID != a.Classifier.PairID {
		return nil, fmt.Errorf("%w: vectorizer %q, classifier %q",
			ErrPairMismatch, a.Vectorizer.PairID, a.Classifier.PairID)
	}
	if a.Vectorizer.Language != a.Classifier.Language {
		return nil, fmt.Errorf("%w: vectorizer for %q paired with classifier for %q",
			ErrInvalidArtifact, a.Vectorizer.Language, a.Classifier.Language)
	}
	vec := &Vectorizer{Vocabulary: a.Vectorizer.Vocabulary, IDF: a.Vectorizer.IDF}
	if err := vec.validate(); err != nil {
		return nil, err
	}
	if a.Classifier.Model == nil {
		return nil, fmt.Errorf("%w: missing classifier", ErrInvalidArtifact)
	}
	if err := a.Classifier.Model.validate(vec.Dim()); err != nil {
		return nil, err
	}
	vec.buildIndex()
	return &Model{
		PairID:          a.Classifier.PairID,
		Language:        a.Classifier.Language,
		Vectorizer:      vec,
		Classifier:      a.Classifier.Model,
		TrainedExamples: a.Classifier.TrainedExamples,
		TrainedAt:       a.Classifier.TrainedAt,
	}, nil
}
