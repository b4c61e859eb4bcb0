package scoring

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
)

var (
	_ Generator = (*SimilarityGenerator)(nil)

	// foldCaser is a package-level Unicode case folder for performance.
	// This avoids creating a new caser for each string preparation.
	foldCaser = cases.Fold()
)

// SimilarityGenerator scores free-text fields against reference answers,
// producing an exact match rate and a mean Levenshtein similarity.
//
// A field applies when every prediction and label is a string. Strings are
// normalized before comparison with whitespace trimming and Unicode-aware
// case folding, so "  Paris " matches "paris".
//
// The generator is stateless and safe for concurrent use.
type SimilarityGenerator struct{}

// NewSimilarityGenerator creates a text similarity generator.
func NewSimilarityGenerator() *SimilarityGenerator {
	return &SimilarityGenerator{}
}

// Name returns the generator identifier used as the response key.
func (g *SimilarityGenerator) Name() string { return "similarity" }

// Evaluate computes exact_match and levenshtein for the samples.
// exact_match is the fraction of normalized predictions identical to their
// reference; levenshtein is the mean edit-distance similarity in [0, 1].
func (g *SimilarityGenerator) Evaluate(_ context.Context, samples []Sample, _ map[string]any) (map[string]float64, error) {
	if len(samples) == 0 {
		return nil, ErrNotApplicable
	}

	preds, labels, ok := stringPairs(samples)
	if !ok {
		return nil, ErrNotApplicable
	}

	var exact, similarity float64
	for i, p := range preds {
		pred := normalizeText(p)
		label := normalizeText(labels[i])

		if pred == label {
			exact++
		}
		similarity += textSimilarity(pred, label)
	}

	n := float64(len(samples))
	return map[string]float64{
		"exact_match": exact / n,
		"levenshtein": similarity / n,
	}, nil
}

// normalizeText prepares a string for comparison by trimming surrounding
// whitespace and applying Unicode case folding.
func normalizeText(s string) string {
	return foldCaser.String(strings.TrimSpace(s))
}

// textSimilarity computes the similarity score between two strings using
// the Levenshtein distance algorithm. Returns a value between 0.0 and 1.0
// where 1.0 indicates identical strings and 0.0 indicates maximum
// dissimilarity.
func textSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	// The distance operates on runes, so the maximum possible distance
	// must use rune counts for consistency with multi-byte characters.
	distance := levenshtein.ComputeDistance(s1, s2)

	maxLen := utf8.RuneCountInString(s1)
	if n := utf8.RuneCountInString(s2); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}

	similarity := 1.0 - float64(distance)/float64(maxLen)
	if similarity < 0 {
		similarity = 0
	}

	return similarity
}
