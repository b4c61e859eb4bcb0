package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/ahrav/go-scorecard/internal/domain"
)

// Field names used across the synthetic eval dataset. Gold fields hold
// ground truth; a model's cached prediction for field F lives under the
// "model:F" key, matching the local scoring backend's convention.
const (
	FieldPrompt = "prompt"

	// Binary classification: prediction field "label" scored against "y".
	FieldPredLabel = "label"
	FieldGoldLabel = "y"

	// Regression: prediction field "score" scored against "target".
	FieldPredScore  = "score"
	FieldGoldTarget = "target"

	// Text: prediction field "text" scored against "answer".
	FieldPredText   = "text"
	FieldGoldAnswer = "answer"

	// Facet features.
	FacetLanguage = "language"
	FacetLength   = "length"
)

var (
	languages = []string{"en", "de", "fr"}
	lengths   = []string{"short", "long"}
	answers   = []string{
		"the mitochondria is the powerhouse of the cell",
		"water boils at one hundred degrees celsius",
		"the capital of france is paris",
		"light travels faster than sound",
	}
)

// ModelSkill pairs a model identifier with how accurate its synthetic
// predictions are, in [0,1]. Skill 1 predicts perfectly; skill 0 guesses.
type ModelSkill struct {
	Model string
	Skill float64
}

// GenerateEvalDataset creates a synthetic eval dataset with gold labels,
// facet features, and cached predictions for every given model. The seed
// controls randomization - use time.Now().UnixNano() for non-deterministic
// generation or a fixed value for reproducible tests.
// NOTE: This is for testing purposes only; real evaluations need a real
// dataset.
func GenerateEvalDataset(size int, seed int64, models []ModelSkill) []domain.Example {
	rng := rand.New(rand.NewSource(seed))

	examples := make([]domain.Example, 0, size)
	for i := range size {
		gold := rng.Intn(2)
		target := rng.Float64() * 10
		answer := answers[rng.Intn(len(answers))]

		data := map[string]any{
			FieldPrompt:     fmt.Sprintf("question %d: classify, estimate, and transcribe", i+1),
			FieldGoldLabel:  gold,
			FieldGoldTarget: target,
			FieldGoldAnswer: answer,
			FacetLanguage:   languages[rng.Intn(len(languages))],
			FacetLength:     lengths[rng.Intn(len(lengths))],
		}

		for _, m := range models {
			data[m.Model+":"+FieldPredLabel] = predictLabel(rng, gold, m.Skill)
			data[m.Model+":"+FieldPredScore] = predictScore(rng, target, m.Skill)
			data[m.Model+":"+FieldPredText] = predictText(rng, answer, m.Skill)
		}

		examples = append(examples, domain.Example{
			ID:   fmt.Sprintf("ex-%04d", i+1),
			Data: data,
		})
	}
	return examples
}

// GenerateEvalDatasetDefault creates a dataset with a time-based seed.
func GenerateEvalDatasetDefault(size int, models []ModelSkill) []domain.Example {
	return GenerateEvalDataset(size, time.Now().UnixNano(), models)
}

// predictLabel returns a classification score in [0,1]: on the gold side of
// the 0.5 threshold with probability skill, on the wrong side otherwise.
func predictLabel(rng *rand.Rand, gold int, skill float64) float64 {
	correct := rng.Float64() < skill
	high := gold == 1
	if !correct {
		high = !high
	}
	if high {
		return 0.5 + rng.Float64()*0.5
	}
	return rng.Float64() * 0.5
}

// predictScore returns the gold target plus noise shrinking with skill.
func predictScore(rng *rand.Rand, target, skill float64) float64 {
	return target + rng.NormFloat64()*(1.1-skill)
}

// predictText returns the gold answer verbatim with probability skill and a
// perturbed variant otherwise.
func predictText(rng *rand.Rand, answer string, skill float64) string {
	if rng.Float64() < skill {
		return answer
	}
	perturbations := []string{
		answer + " probably",
		"i think " + answer,
		answer[:len(answer)-1],
	}
	return perturbations[rng.Intn(len(perturbations))]
}

// WriteExamplesJSONL writes the examples to w, one JSON object per line.
func WriteExamplesJSONL(w io.Writer, examples []domain.Example) error {
	enc := json.NewEncoder(w)
	for _, ex := range examples {
		if err := enc.Encode(ex); err != nil {
			return fmt.Errorf("failed to encode example %s: %w", ex.ID, err)
		}
	}
	return nil
}

// SaveExamplesJSONL writes the examples to a JSONL file, creating parent
// directories as needed.
func SaveExamplesJSONL(path string, examples []domain.Example) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	var buf bytes.Buffer
	if err := WriteExamplesJSONL(&buf, examples); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write dataset file: %w", err)
	}
	return nil
}

// DatasetStats summarizes a synthetic dataset for display.
type DatasetStats struct {
	TotalExamples int
	LanguageCount map[string]int
	LengthCount   map[string]int
	PositiveRate  float64
}

// ComputeDatasetStats tallies facet distribution and label balance.
func ComputeDatasetStats(examples []domain.Example) DatasetStats {
	stats := DatasetStats{
		TotalExamples: len(examples),
		LanguageCount: make(map[string]int),
		LengthCount:   make(map[string]int),
	}

	positives := 0
	for _, ex := range examples {
		if lang, ok := ex.Data[FacetLanguage].(string); ok {
			stats.LanguageCount[lang]++
		}
		if length, ok := ex.Data[FacetLength].(string); ok {
			stats.LengthCount[length]++
		}
		if gold, ok := ex.Data[FieldGoldLabel].(int); ok && gold == 1 {
			positives++
		}
	}
	if len(examples) > 0 {
		stats.PositiveRate = float64(positives) / float64(len(examples))
	}
	return stats
}
