package scoring

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahrav/go-scorecard/internal/domain"
	"github.com/ahrav/go-scorecard/internal/ports"
)

// localBackendName is the registry key for the in-process backend.
const localBackendName = "local"

func init() {
	RegisterBackendFactory(localBackendName, newLocalBackendFromConfig)
}

var _ ports.Scorer = (*LocalBackend)(nil)

// LocalBackend implements the ports.Scorer interface with an in-process
// bank of metric generators. It scores cached model outputs stored on the
// examples themselves, so no model is invoked at scoring time; only the
// optional LLM judge generator performs network calls.
//
// For each configured field mapping, the backend gathers samples by reading
// the model's prediction under the "model:pred" example key and the gold
// value under the label key, then offers the sample set to every generator.
// Generators that report ErrNotApplicable are skipped for that field.
//
// The backend is safe for concurrent use; the engine overlaps one request
// per active model.
type LocalBackend struct {
	fields     []FieldMapping
	generators []Generator
}

// NewLocalBackend creates a local backend over the given field mappings.
// When no generators are supplied, the deterministic default bank is used.
// At least one field mapping is required; a backend with nothing to score
// would reduce every request to an empty response.
func NewLocalBackend(fields []FieldMapping, generators ...Generator) (*LocalBackend, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("local backend requires at least one field mapping")
	}
	for i, f := range fields {
		if err := validate.Struct(f); err != nil {
			return nil, fmt.Errorf("invalid field mapping %d: %w", i, err)
		}
	}

	if len(generators) == 0 {
		generators = DefaultGenerators()
	}

	return &LocalBackend{
		fields:     fields,
		generators: generators,
	}, nil
}

// newLocalBackendFromConfig creates a local backend from registry
// configuration. Field mappings come from the "fields" option; a "judge"
// option block adds the LLM judge to the default generator bank.
func newLocalBackendFromConfig(config BackendConfig) (ports.Scorer, error) {
	fields, err := parseFieldMappings(config.Options)
	if err != nil {
		return nil, err
	}

	generators := DefaultGenerators()

	if rawJudge, ok := config.Options["judge"]; ok {
		judgeOpts, ok := rawJudge.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("judge option must be a map, got %T", rawJudge)
		}
		judge, err := newJudgeFromOptions(config, judgeOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to configure judge generator: %w", err)
		}
		generators = append(generators, judge)
	}

	return NewLocalBackend(fields, generators...)
}

// Backend returns the backend identifier for logging and metrics.
func (b *LocalBackend) Backend() string { return localBackendName }

// Score evaluates the request's examples with every applicable generator.
// Examples missing the model's prediction or the gold label for a field
// are excluded from that field's samples; a field with no samples at all
// produces no results. Any generator failure fails the whole request, so
// the engine never merges partial responses.
func (b *LocalBackend) Score(ctx context.Context, req domain.ScoreRequest) (domain.ScoreResponse, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	out := make(domain.ScoreResponse)

	for _, mapping := range b.fields {
		samples := collectSamples(req.Examples, req.Model, mapping)
		if len(samples) == 0 {
			continue
		}

		for _, gen := range b.generators {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			metrics, err := gen.Evaluate(ctx, samples, req.Config)
			if errors.Is(err, ErrNotApplicable) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("generator %s on field %s: %w", gen.Name(), mapping.Pred, err)
			}

			out[gen.Name()] = append(out[gen.Name()], domain.FieldMetrics{
				PredKey:  mapping.Pred,
				LabelKey: mapping.Label,
				Metrics:  metrics,
			})
		}
	}

	return out, nil
}

// PredictionKey returns the example data key holding a model's cached
// prediction for a field, following the "model:field" convention.
func PredictionKey(model, field string) string {
	return model + ":" + field
}

// collectSamples gathers the (prediction, label) pairs for one field
// mapping, keeping example order.
func collectSamples(examples []domain.Example, model string, mapping FieldMapping) []Sample {
	predKey := PredictionKey(model, mapping.Pred)

	samples := make([]Sample, 0, len(examples))
	for _, ex := range examples {
		pred, ok := ex.Field(predKey)
		if !ok {
			continue
		}
		label, ok := ex.Field(mapping.Label)
		if !ok {
			continue
		}
		samples = append(samples, Sample{
			ExampleID: ex.ID,
			Pred:      pred,
			Label:     label,
		})
	}
	return samples
}

// parseFieldMappings extracts field mappings from backend options.
// It accepts native []FieldMapping values from programmatic construction
// and []any of maps as produced by YAML and JSON decoding.
func parseFieldMappings(opts map[string]any) ([]FieldMapping, error) {
	raw, ok := opts["fields"]
	if !ok {
		return nil, fmt.Errorf("local backend requires a fields option")
	}

	switch v := raw.(type) {
	case []FieldMapping:
		return v, nil
	case []any:
		fields := make([]FieldMapping, 0, len(v))
		for i, entry := range v {
			m, ok := entry.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("field mapping %d must be a map, got %T", i, entry)
			}
			mapping := FieldMapping{
				Pred:  ExtractOptionalString(m, "pred", "", IsNonEmptyString),
				Label: ExtractOptionalString(m, "label", "", IsNonEmptyString),
			}
			if mapping.Pred == "" || mapping.Label == "" {
				return nil, fmt.Errorf("field mapping %d requires pred and label names", i)
			}
			fields = append(fields, mapping)
		}
		return fields, nil
	default:
		return nil, fmt.Errorf("fields option must be a list, got %T", raw)
	}
}
