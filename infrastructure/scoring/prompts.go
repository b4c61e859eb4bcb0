package scoring

import (
	"strings"
	"text/template"
)

// DefaultJudgePrompt is the prompt template used when no custom template is
// configured. It renders with .Prediction and .Reference fields and asks
// for a quality rating on the unit interval.
const DefaultJudgePrompt = `You are evaluating the quality of a model's answer against a reference answer.

Reference answer:
{{truncate .Reference 2000}}

Model answer:
{{truncate .Prediction 2000}}

Rate how well the model answer matches the meaning and correctness of the reference answer.
Use a score between 0.0 (completely wrong or unrelated) and 1.0 (fully equivalent).
Partial credit is expected for answers that are close but imprecise.`

// judgePromptFuncs returns the template function map available to judge
// prompt templates. Functions are stateless and safe for concurrent
// template execution.
func judgePromptFuncs() template.FuncMap {
	return template.FuncMap{
		// add performs integer addition.
		// Common use: converting 0-based to 1-based indexing.
		"add": func(a, b int) int {
			return a + b
		},

		// contains reports whether substr is within s.
		"contains": func(s, substr string) bool {
			return strings.Contains(s, substr)
		},

		// truncate limits string length, adding "..." if truncated.
		// Returns the empty string if length <= 0 and preserves the full
		// string when already within the limit.
		"truncate": func(s string, length int) string {
			if length <= 0 {
				return ""
			}
			if len(s) <= length {
				return s
			}
			if length > 3 {
				return s[:length-3] + "..."
			}
			return s[:length]
		},

		// upper converts a string to uppercase.
		"upper": strings.ToUpper,

		// lower converts a string to lowercase.
		"lower": strings.ToLower,
	}
}
