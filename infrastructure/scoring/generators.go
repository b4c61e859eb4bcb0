package scoring

import (
	"context"

	"github.com/go-playground/validator/v10"
)

// validate is the package-level validator shared by generator and judge
// configuration structs.
var validate = validator.New()

// Sample pairs one example's model prediction with its gold label for a
// single field mapping. Values keep their dataset types; each generator
// coerces them into its own input domain or reports ErrNotApplicable.
type Sample struct {
	// ExampleID identifies the example the sample was drawn from.
	ExampleID string
	// Pred is the model's cached prediction value.
	Pred any
	// Label is the gold value the prediction is scored against.
	Label any
}

// FieldMapping names a prediction field and the dataset field it is scored
// against. The local backend resolves model M's prediction for field Pred
// under the "M:Pred" example key.
type FieldMapping struct {
	// Pred is the prediction field name, e.g. "label".
	Pred string `yaml:"pred" json:"pred" validate:"required"`
	// Label is the gold field name, e.g. "y".
	Label string `yaml:"label" json:"label" validate:"required"`
}

// Generator computes one family of metrics over a sample set.
// Implementations must be stateless and safe for concurrent use; the local
// backend runs one Evaluate call per field mapping within each request and
// the engine overlaps requests across models.
//
// Evaluate returns ErrNotApplicable when the sample values fall outside the
// generator's input domain; the local backend skips the pairing without
// failing the request. Any other error fails the whole request.
type Generator interface {
	// Name returns the generator identifier used as the response key.
	Name() string

	// Evaluate computes the generator's metrics for the samples.
	// The config map carries model-specific calibration from the request
	// and may be nil.
	Evaluate(ctx context.Context, samples []Sample, config map[string]any) (map[string]float64, error)
}

// DefaultGenerators returns the deterministic generator bank: binary
// classification, regression, and text similarity. The LLM judge is
// excluded because it requires provider credentials; callers add it
// explicitly when configured.
func DefaultGenerators() []Generator {
	return []Generator{
		NewClassificationGenerator(),
		NewRegressionGenerator(),
		NewSimilarityGenerator(),
	}
}

// floatValue coerces a sample value into a float64.
// JSON decoding produces float64 for all numbers; datasets built in-process
// may carry native int or bool values for binary labels.
func floatValue(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// stringValue coerces a sample value into a string.
func stringValue(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// isBinary reports whether the value is exactly 0 or 1.
func isBinary(v float64) bool {
	return v == 0 || v == 1
}

// floatPairs converts every sample to a (pred, label) float pair.
// It reports false when any value resists numeric coercion.
func floatPairs(samples []Sample) (preds, labels []float64, ok bool) {
	preds = make([]float64, len(samples))
	labels = make([]float64, len(samples))
	for i, s := range samples {
		p, pOK := floatValue(s.Pred)
		l, lOK := floatValue(s.Label)
		if !pOK || !lOK {
			return nil, nil, false
		}
		preds[i] = p
		labels[i] = l
	}
	return preds, labels, true
}

// stringPairs converts every sample to a (pred, label) string pair.
// It reports false when any value is not a string.
func stringPairs(samples []Sample) (preds, labels []string, ok bool) {
	preds = make([]string, len(samples))
	labels = make([]string, len(samples))
	for i, s := range samples {
		p, pOK := stringValue(s.Pred)
		l, lOK := stringValue(s.Label)
		if !pOK || !lOK {
			return nil, nil, false
		}
		preds[i] = p
		labels[i] = l
	}
	return preds, labels, true
}
