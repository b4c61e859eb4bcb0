package scoring

import (
	"context"
)

// Classification calibration option keys read from the request config.
const (
	// ConfigKeyThreshold overrides the decision threshold for turning a
	// prediction score into a positive call.
	ConfigKeyThreshold = "threshold"
	// ConfigKeyMargin shifts the decision threshold upward, requiring
	// stronger evidence before a positive call.
	ConfigKeyMargin = "margin"
	// DefaultDecisionThreshold is the decision boundary used when no
	// calibration is in effect.
	DefaultDecisionThreshold = 0.5
)

var _ Generator = (*ClassificationGenerator)(nil)

// ClassificationGenerator scores binary classification fields, producing
// accuracy, precision, recall, and F1 over thresholded predictions.
//
// A field applies when every label is exactly 0 or 1 and every prediction
// is numeric. Predictions may be hard labels or raw scores; both pass
// through the same decision threshold. Model-specific calibration arrives
// through the request config: "threshold" replaces the default 0.5
// boundary and "margin" shifts it upward.
//
// The generator is stateless and safe for concurrent use.
type ClassificationGenerator struct{}

// NewClassificationGenerator creates a binary classification generator.
func NewClassificationGenerator() *ClassificationGenerator {
	return &ClassificationGenerator{}
}

// Name returns the generator identifier used as the response key.
func (g *ClassificationGenerator) Name() string { return "classification" }

// Evaluate computes accuracy, precision, recall, and F1 for the samples.
// Precision, recall, and F1 degrade to 0 when their denominators are
// empty, so a model that never predicts positive still produces a full
// metric set.
func (g *ClassificationGenerator) Evaluate(_ context.Context, samples []Sample, config map[string]any) (map[string]float64, error) {
	if len(samples) == 0 {
		return nil, ErrNotApplicable
	}

	preds, labels, ok := floatPairs(samples)
	if !ok {
		return nil, ErrNotApplicable
	}

	for _, l := range labels {
		if !isBinary(l) {
			return nil, ErrNotApplicable
		}
	}

	threshold := decisionThreshold(config)

	var tp, tn, fp, fn float64
	for i, p := range preds {
		predicted := p >= threshold
		actual := labels[i] == 1

		switch {
		case predicted && actual:
			tp++
		case predicted && !actual:
			fp++
		case !predicted && actual:
			fn++
		default:
			tn++
		}
	}

	total := float64(len(samples))
	accuracy := (tp + tn) / total

	precision := 0.0
	if tp+fp > 0 {
		precision = tp / (tp + fp)
	}

	recall := 0.0
	if tp+fn > 0 {
		recall = tp / (tp + fn)
	}

	f1 := 0.0
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	return map[string]float64{
		"accuracy":  accuracy,
		"precision": precision,
		"recall":    recall,
		"f1":        f1,
	}, nil
}

// decisionThreshold resolves the effective decision boundary from the
// request config. The margin is additive on top of the threshold and the
// result is clamped to [0, 1].
func decisionThreshold(config map[string]any) float64 {
	threshold := ExtractOptionalFloat64(config, ConfigKeyThreshold, DefaultDecisionThreshold, IsUnitInterval)
	margin := ExtractOptionalFloat64(config, ConfigKeyMargin, 0, IsUnitInterval)
	return ClampFloat64(threshold+margin, 0, 1)
}
