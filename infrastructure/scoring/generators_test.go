package scoring

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// floatSamples builds samples from (pred, label) numeric pairs.
func floatSamples(pairs ...[2]float64) []Sample {
	samples := make([]Sample, len(pairs))
	for i, p := range pairs {
		samples[i] = Sample{ExampleID: fmt.Sprintf("e%d", i+1), Pred: p[0], Label: p[1]}
	}
	return samples
}

// textSamples builds samples from (pred, label) string pairs.
func textSamples(pairs ...[2]string) []Sample {
	samples := make([]Sample, len(pairs))
	for i, p := range pairs {
		samples[i] = Sample{ExampleID: fmt.Sprintf("e%d", i+1), Pred: p[0], Label: p[1]}
	}
	return samples
}

func TestClassificationGenerator_ComputesBinaryMetrics(t *testing.T) {
	gen := NewClassificationGenerator()

	tests := []struct {
		name    string
		samples []Sample
		config  map[string]any
		want    map[string]float64
	}{
		{
			name:    "one of two predictions correct",
			samples: floatSamples([2]float64{1, 1}, [2]float64{0, 1}),
			want:    map[string]float64{"accuracy": 0.5, "precision": 1, "recall": 0.5, "f1": 2.0 / 3.0},
		},
		{
			name: "perfect predictions",
			samples: floatSamples(
				[2]float64{1, 1},
				[2]float64{0, 0},
				[2]float64{1, 1},
			),
			want: map[string]float64{"accuracy": 1, "precision": 1, "recall": 1, "f1": 1},
		},
		{
			name: "model that never predicts positive",
			samples: floatSamples(
				[2]float64{0, 1},
				[2]float64{0, 0},
			),
			want: map[string]float64{"accuracy": 0.5, "precision": 0, "recall": 0, "f1": 0},
		},
		{
			name: "raw scores pass through the default threshold",
			samples: floatSamples(
				[2]float64{0.9, 1},
				[2]float64{0.2, 0},
			),
			want: map[string]float64{"accuracy": 1, "precision": 1, "recall": 1, "f1": 1},
		},
		{
			name: "margin shifts the decision boundary",
			samples: floatSamples(
				[2]float64{0.55, 1},
				[2]float64{0.2, 0},
			),
			config: map[string]any{"margin": 0.1},
			want:   map[string]float64{"accuracy": 0.5, "precision": 0, "recall": 0, "f1": 0},
		},
		{
			name: "explicit threshold overrides the default",
			samples: floatSamples(
				[2]float64{0.4, 1},
				[2]float64{0.2, 0},
			),
			config: map[string]any{"threshold": 0.3},
			want:   map[string]float64{"accuracy": 1, "precision": 1, "recall": 1, "f1": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gen.Evaluate(context.Background(), tt.samples, tt.config)

			require.NoError(t, err, "binary samples should be applicable")
			require.Len(t, got, 4, "classification should report four metrics")
			for metric, want := range tt.want {
				assert.InDelta(t, want, got[metric], 1e-9, "metric %s should match", metric)
			}
		})
	}
}

func TestClassificationGenerator_SkipsInapplicableFields(t *testing.T) {
	gen := NewClassificationGenerator()

	tests := []struct {
		name    string
		samples []Sample
	}{
		{
			name:    "continuous labels belong to regression",
			samples: floatSamples([2]float64{3.1, 3.0}, [2]float64{5.2, 5.0}),
		},
		{
			name: "text values belong to similarity",
			samples: []Sample{
				{ExampleID: "e1", Pred: "yes", Label: "yes"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gen.Evaluate(context.Background(), tt.samples, nil)
			assert.ErrorIs(t, err, ErrNotApplicable, "out-of-domain samples should be skipped, not failed")
		})
	}
}

func TestGenerators_EmptySamplesAreNotApplicable(t *testing.T) {
	// An empty sample set has no input domain to speak of; every generator
	// must skip it rather than divide by zero into NaN metrics.
	judge, err := NewJudgeGenerator(&scriptedJudge{}, JudgeConfig{})
	require.NoError(t, err, "judge construction should succeed")

	generators := append(DefaultGenerators(), Generator(judge))

	for _, gen := range generators {
		t.Run(gen.Name(), func(t *testing.T) {
			got, err := gen.Evaluate(context.Background(), nil, nil)

			assert.ErrorIs(t, err, ErrNotApplicable, "empty samples should be skipped, not scored")
			assert.Nil(t, got, "no metrics should be produced for empty samples")
		})
	}
}

func TestClassificationGenerator_AcceptsNativeValueTypes(t *testing.T) {
	// Given labels as ints and bools rather than floats
	gen := NewClassificationGenerator()
	samples := []Sample{
		{ExampleID: "e1", Pred: 1, Label: true},
		{ExampleID: "e2", Pred: 0, Label: false},
	}

	got, err := gen.Evaluate(context.Background(), samples, nil)

	require.NoError(t, err, "int and bool binary values should be applicable")
	assert.InDelta(t, 1.0, got["accuracy"], 1e-9, "native types should score like floats")
}

func TestRegressionGenerator_ComputesErrorMetrics(t *testing.T) {
	gen := NewRegressionGenerator()

	tests := []struct {
		name    string
		samples []Sample
		want    map[string]float64
	}{
		{
			name:    "symmetric errors",
			samples: floatSamples([2]float64{2, 1}, [2]float64{4, 5}),
			want:    map[string]float64{"mse": 1, "mae": 1, "r2": 0.75},
		},
		{
			name: "perfect fit",
			samples: floatSamples(
				[2]float64{1.5, 1.5},
				[2]float64{7.25, 7.25},
			),
			want: map[string]float64{"mse": 0, "mae": 0, "r2": 1},
		},
		{
			name: "constant labels with perfect fit",
			samples: floatSamples(
				[2]float64{2, 2},
				[2]float64{2, 2},
			),
			want: map[string]float64{"mse": 0, "mae": 0, "r2": 1},
		},
		{
			name: "constant labels with errors score zero r2",
			samples: floatSamples(
				[2]float64{3, 2},
				[2]float64{2, 2},
			),
			want: map[string]float64{"mse": 0.5, "mae": 0.5, "r2": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gen.Evaluate(context.Background(), tt.samples, nil)

			require.NoError(t, err, "numeric samples should be applicable")
			for metric, want := range tt.want {
				assert.InDelta(t, want, got[metric], 1e-9, "metric %s should match", metric)
			}
		})
	}
}

func TestRegressionGenerator_SkipsBinaryAndTextFields(t *testing.T) {
	gen := NewRegressionGenerator()

	// Binary labels are the classification generator's domain.
	_, err := gen.Evaluate(context.Background(), floatSamples([2]float64{0.7, 1}, [2]float64{0.1, 0}), nil)
	assert.ErrorIs(t, err, ErrNotApplicable, "binary labels should be left to classification")

	_, err = gen.Evaluate(context.Background(), textSamples([2]string{"a", "b"}), nil)
	assert.ErrorIs(t, err, ErrNotApplicable, "text values should be left to similarity")
}

func TestSimilarityGenerator_ComputesTextMetrics(t *testing.T) {
	gen := NewSimilarityGenerator()

	tests := []struct {
		name            string
		samples         []Sample
		wantExact       float64
		wantLevenshtein float64
	}{
		{
			name: "normalization ignores case and surrounding whitespace",
			samples: textSamples(
				[2]string{"Paris", "paris"},
				[2]string{"  london ", "London"},
			),
			wantExact:       1,
			wantLevenshtein: 1,
		},
		{
			name:            "partial match scores edit distance",
			samples:         textSamples([2]string{"kitten", "sitting"}),
			wantExact:       0,
			wantLevenshtein: 1 - 3.0/7.0,
		},
		{
			name: "mixed results average",
			samples: textSamples(
				[2]string{"exact", "exact"},
				[2]string{"close", "clos"},
			),
			wantExact:       0.5,
			wantLevenshtein: (1 + (1 - 1.0/5.0)) / 2,
		},
		{
			name:            "unicode strings compare by rune",
			samples:         textSamples([2]string{"café", "CAFE"}),
			wantExact:       0,
			wantLevenshtein: 0.75,
		},
		{
			name:            "empty strings match",
			samples:         textSamples([2]string{"", "  "}),
			wantExact:       1,
			wantLevenshtein: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gen.Evaluate(context.Background(), tt.samples, nil)

			require.NoError(t, err, "string samples should be applicable")
			assert.InDelta(t, tt.wantExact, got["exact_match"], 1e-9, "exact match rate should match")
			assert.InDelta(t, tt.wantLevenshtein, got["levenshtein"], 1e-9, "levenshtein similarity should match")
		})
	}
}

func TestSimilarityGenerator_SkipsNumericFields(t *testing.T) {
	gen := NewSimilarityGenerator()

	_, err := gen.Evaluate(context.Background(), floatSamples([2]float64{1, 1}), nil)
	assert.ErrorIs(t, err, ErrNotApplicable, "numeric values should be left to other generators")
}

func TestDefaultGenerators_CoversDeterministicBank(t *testing.T) {
	// When building the default bank
	gens := DefaultGenerators()

	// Then the three deterministic generators should be present by name
	names := make([]string, len(gens))
	for i, g := range gens {
		names[i] = g.Name()
	}
	assert.Equal(t, []string{"classification", "regression", "similarity"}, names,
		"default bank should exclude the judge")
}
