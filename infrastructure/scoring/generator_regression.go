package scoring

import (
	"context"
	"math"
)

var _ Generator = (*RegressionGenerator)(nil)

// RegressionGenerator scores continuous numeric fields, producing mean
// squared error, mean absolute error, and the coefficient of determination.
//
// A field applies when every prediction and label is numeric and the labels
// are not all binary. Binary-labeled fields are left to the classification
// generator so the two report disjoint field sets.
//
// The generator is stateless and safe for concurrent use.
type RegressionGenerator struct{}

// NewRegressionGenerator creates a regression metrics generator.
func NewRegressionGenerator() *RegressionGenerator {
	return &RegressionGenerator{}
}

// Name returns the generator identifier used as the response key.
func (g *RegressionGenerator) Name() string { return "regression" }

// Evaluate computes mse, mae, and r2 for the samples.
// R² follows the usual convention for degenerate label sets: when labels
// carry no variance, a perfect fit scores 1 and anything else scores 0.
func (g *RegressionGenerator) Evaluate(_ context.Context, samples []Sample, _ map[string]any) (map[string]float64, error) {
	if len(samples) == 0 {
		return nil, ErrNotApplicable
	}

	preds, labels, ok := floatPairs(samples)
	if !ok {
		return nil, ErrNotApplicable
	}

	allBinary := true
	for _, l := range labels {
		if !isBinary(l) {
			allBinary = false
			break
		}
	}
	if allBinary {
		return nil, ErrNotApplicable
	}

	n := float64(len(samples))

	var sumSq, sumAbs, sumLabels float64
	for i, p := range preds {
		diff := p - labels[i]
		sumSq += diff * diff
		sumAbs += math.Abs(diff)
		sumLabels += labels[i]
	}

	mse := sumSq / n
	mae := sumAbs / n

	mean := sumLabels / n
	var totalSq float64
	for _, l := range labels {
		dev := l - mean
		totalSq += dev * dev
	}

	var r2 float64
	switch {
	case totalSq > 0:
		r2 = 1 - sumSq/totalSq
	case sumSq == 0:
		r2 = 1
	default:
		r2 = 0
	}

	return map[string]float64{
		"mse": mse,
		"mae": mae,
		"r2":  r2,
	}, nil
}
