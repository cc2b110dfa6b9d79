package textmodel

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultAlpha is the Laplace smoothing parameter.
const DefaultAlpha = 1.0

// ErrNoExamples is returned when fitting on an empty training set.
var ErrNoExamples = errors.New("no training examples")

// NaiveBayes is a two-class multinomial Naive Bayes classifier over
// non-negative feature vectors. Classes lists only the labels seen in
// training, false before true.
type NaiveBayes struct {
	Alpha          float64     `json:"alpha"`
	Classes        []bool      `json:"classes"`
	ClassCount     []float64   `json:"class_count"`
	ClassLogPrior  []float64   `json:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
}

// FitNaiveBayes fits the classifier on rows x with labels y.
func FitNaiveBayes(x [][]float64, y []bool, alpha float64) (*NaiveBayes, error) {
	if len(x) == 0 {
		return nil, ErrNoExamples
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%d rows but %d labels", len(x), len(y))
	}
	if alpha <= 0 {
		alpha = DefaultAlpha
	}
	dim := len(x[0])

	var counts [2]float64
	var sums [2][]float64
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, row := range x {
		if len(row) != dim {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), dim)
		}
		c := label(y[i])
		counts[c]++
		floats.Add(sums[c], row)
	}

	nb := &NaiveBayes{Alpha: alpha}
	total := counts[0] + counts[1]
	for c, class := range []bool{false, true} {
		if counts[c] == 0 {
			continue
		}
		smoothed := make([]float64, dim)
		floats.AddConst(alpha, smoothed)
		floats.Add(smoothed, sums[c])
		denom := floats.Sum(smoothed)

		logProb := make([]float64, dim)
		for j, s := range smoothed {
			logProb[j] = math.Log(s) - math.Log(denom)
		}

		nb.Classes = append(nb.Classes, class)
		nb.ClassCount = append(nb.ClassCount, counts[c])
		nb.ClassLogPrior = append(nb.ClassLogPrior, math.Log(counts[c]/total))
		nb.FeatureLogProb = append(nb.FeatureLogProb, logProb)
	}
	return nb, nil
}

func label(fixable bool) int {
	if fixable {
		return 1
	}
	return 0
}

func (nb *NaiveBayes) validate(dim int) error {
	n := len(nb.Classes)
	if n == 0 || n > 2 || len(nb.ClassLogPrior) != n || len(nb.FeatureLogProb) != n {
		return fmt.Errorf("%w: inconsistent class tables", ErrInvalidArtifact)
	}
	for _, row := range nb.FeatureLogProb {
		if len(row) != dim {
			return fmt.Errorf("%w: %d feature weights, want %d", ErrInvalidArtifact, len(row), dim)
		}
	}
	return nil
}

// Predict returns the most probable class and its posterior probability.
// Ties go to the first class.
func (nb *NaiveBayes) Predict(x []float64) (bool, float64, error) {
	if err := nb.validate(len(x)); err != nil {
		return false, 0, err
	}
	jll := make([]float64, len(nb.Classes))
	for c := range nb.Classes {
		jll[c] = nb.ClassLogPrior[c] + floats.Dot(x, nb.FeatureLogProb[c])
	}
	best := floats.MaxIdx(jll)
	p := math.Exp(jll[best] - floats.LogSumExp(jll))
	if math.IsNaN(p) {
		return false, 0, fmt.Errorf("%w: non-finite posterior", ErrInvalidArtifact)
	}
	return nb.Classes[best], p, nil
}
