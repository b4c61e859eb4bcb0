package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/ahrav/go-scorecard/internal/testutils"
)

func main() {
	var (
		size       = flag.Int("size", 500, "Number of examples to generate")
		outputPath = flag.String("output", "testdata/eval_dataset/sample_eval_dataset.jsonl", "Output file path")
		seed       = flag.Int64("seed", 0, "Random seed; 0 selects a time-based seed")
		modelsFlag = flag.String("models", "model-a:0.9,model-b:0.6", "Comma-separated model:skill pairs")
	)
	flag.Parse()

	models, err := parseModelSkills(*modelsFlag)
	if err != nil {
		log.Fatalf("Invalid -models value: %v", err)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	// Generate the dataset.
	examples := testutils.GenerateEvalDataset(*size, *seed, models)

	if err := testutils.SaveExamplesJSONL(*outputPath, examples); err != nil {
		log.Fatalf("Failed to save dataset: %v", err)
	}

	// Compute and display statistics.
	stats := testutils.ComputeDatasetStats(examples)

	fmt.Printf("Generated eval dataset:\n")
	fmt.Printf("- Path: %s\n", *outputPath)
	fmt.Printf("- Seed: %d\n", *seed)
	fmt.Printf("- Total examples: %d\n", stats.TotalExamples)
	fmt.Printf("- Models with cached predictions: %d\n", len(models))
	fmt.Printf("- Languages: %v\n", stats.LanguageCount)
	fmt.Printf("- Lengths: %v\n", stats.LengthCount)
	fmt.Printf("- Positive label rate: %.2f\n", stats.PositiveRate)
	fmt.Printf("\nDataset saved successfully!\n")
}

// parseModelSkills parses comma-separated model:skill pairs, for example
// "gpt-4:0.9,claude-3:0.75".
func parseModelSkills(raw string) ([]testutils.ModelSkill, error) {
	var models []testutils.ModelSkill
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		name, skillStr, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("pair %q must have the form model:skill", pair)
		}
		skill, err := strconv.ParseFloat(skillStr, 64)
		if err != nil {
			return nil, fmt.Errorf("skill in pair %q: %w", pair, err)
		}
		if skill < 0 || skill > 1 {
			return nil, fmt.Errorf("skill in pair %q must be in [0,1]", pair)
		}

		models = append(models, testutils.ModelSkill{Model: name, Skill: skill})
	}

	if len(models) == 0 {
		return nil, fmt.Errorf("at least one model:skill pair is required")
	}
	return models, nil
}
