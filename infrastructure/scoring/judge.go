package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"text/template"
	"time"

	"golang.org/x/sync/errgroup"
)

// Judge generator constants.
const (
	// judgeGeneratorName is the response key for judge results.
	judgeGeneratorName = "judge"
	// DefaultJudgeMaxConcurrency limits concurrent judge calls per request
	// when no explicit limit is configured.
	DefaultJudgeMaxConcurrency = 5
	// DefaultJudgeMaxTokens caps the judge's response length.
	DefaultJudgeMaxTokens = 512
)

// JudgeClient is the minimal LLM surface the judge generator needs.
// Provider adapters implement it over their native SDKs.
type JudgeClient interface {
	// Complete sends a prompt and returns the model's response text.
	// The opts map carries provider-specific parameters such as
	// temperature and max_tokens.
	Complete(ctx context.Context, prompt string, opts map[string]any) (string, error)

	// Model returns the configured model name.
	Model() string
}

// JudgeProviderConfig holds configuration for creating a judge provider
// client.
type JudgeProviderConfig struct {
	// APIKey authenticates requests to the provider.
	APIKey string
	// Model specifies which model judges the predictions.
	// Each provider supplies its own default.
	Model string
	// BaseURL overrides the provider's default API endpoint.
	BaseURL string
	// Timeout sets the maximum duration for individual judge calls.
	Timeout time.Duration
}

// JudgeProviderFactory creates a JudgeClient implementation from
// configuration.
type JudgeProviderFactory func(JudgeProviderConfig) (JudgeClient, error)

// Judge provider registry for extensibility.
var judgeProviderFactories = map[string]JudgeProviderFactory{}

// RegisterJudgeProvider allows registration of custom judge provider
// factories.
func RegisterJudgeProvider(provider string, factory JudgeProviderFactory) {
	judgeProviderFactories[provider] = factory
}

// NewJudgeClient creates a judge client for the named provider.
func NewJudgeClient(provider string, config JudgeProviderConfig) (JudgeClient, error) {
	factory, ok := judgeProviderFactories[provider]
	if !ok {
		return nil, fmt.Errorf("unknown judge provider: %s", provider)
	}
	return factory(config)
}

// JudgeConfig defines the behavior of the judge generator.
// The zero value is usable; every field has a working default.
type JudgeConfig struct {
	// PromptTemplate is the text/template source rendered per sample with
	// .Prediction and .Reference fields. Empty selects the default prompt.
	PromptTemplate string `yaml:"prompt_template" json:"prompt_template"`

	// MaxConcurrency limits concurrent judge calls within one request.
	// Zero selects DefaultJudgeMaxConcurrency.
	MaxConcurrency int `yaml:"max_concurrency" json:"max_concurrency" validate:"min=0,max=64"`

	// Temperature controls judge sampling randomness.
	// Zero keeps judging deterministic.
	Temperature float64 `yaml:"temperature" json:"temperature" validate:"min=0.0,max=2.0"`

	// MaxTokens caps the judge's response length.
	// Zero selects DefaultJudgeMaxTokens.
	MaxTokens int `yaml:"max_tokens" json:"max_tokens" validate:"min=0"`
}

var _ Generator = (*JudgeGenerator)(nil)

// JudgeGenerator scores free-text predictions by asking an LLM to rate
// each prediction against its reference answer, producing a mean quality
// score in [0, 1].
//
// A field applies when every prediction and label is a string. Samples are
// judged concurrently up to the configured limit; any judge call or parse
// failure fails the whole request so the engine never merges partial
// results.
type JudgeGenerator struct {
	client         JudgeClient
	config         JudgeConfig
	promptTemplate *template.Template
}

// NewJudgeGenerator creates a judge generator backed by the given client.
// Configuration defaults are applied before validation, so the zero
// JudgeConfig produces a working generator.
func NewJudgeGenerator(client JudgeClient, config JudgeConfig) (*JudgeGenerator, error) {
	if client == nil {
		return nil, fmt.Errorf("judge client cannot be nil")
	}

	if config.PromptTemplate == "" {
		config.PromptTemplate = DefaultJudgePrompt
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = DefaultJudgeMaxConcurrency
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = DefaultJudgeMaxTokens
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	tmpl, err := template.New("judge_prompt").Funcs(judgePromptFuncs()).Parse(config.PromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}

	return &JudgeGenerator{
		client:         client,
		config:         config,
		promptTemplate: tmpl,
	}, nil
}

// Name returns the generator identifier used as the response key.
func (g *JudgeGenerator) Name() string { return judgeGeneratorName }

// Evaluate judges every sample concurrently and returns the mean quality.
// Each judge call renders the prompt for one prediction/reference pair and
// expects a JSON verdict back; the verdict's score must be in [0, 1].
func (g *JudgeGenerator) Evaluate(ctx context.Context, samples []Sample, _ map[string]any) (map[string]float64, error) {
	if len(samples) == 0 {
		return nil, ErrNotApplicable
	}

	preds, labels, ok := stringPairs(samples)
	if !ok {
		return nil, ErrNotApplicable
	}

	scores := make([]float64, len(samples))
	var mu sync.Mutex

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(g.config.MaxConcurrency)

	for i := range samples {
		prediction := preds[i]
		reference := labels[i]
		exampleID := samples[i].ExampleID
		idx := i

		grp.Go(func() error {
			prompt, err := g.renderPrompt(prediction, reference)
			if err != nil {
				return fmt.Errorf("failed to render judge prompt for example %s: %w", exampleID, err)
			}

			response, err := g.client.Complete(gctx, prompt, map[string]any{
				"temperature": g.config.Temperature,
				"max_tokens":  g.config.MaxTokens,
			})
			if err != nil {
				return fmt.Errorf("judge call failed for example %s: %w", exampleID, err)
			}

			verdict, err := parseJudgeVerdict(response)
			if err != nil {
				return fmt.Errorf("judge verdict for example %s: %w", exampleID, err)
			}

			mu.Lock()
			scores[idx] = verdict.Score
			mu.Unlock()

			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}

	var total float64
	for _, s := range scores {
		total += s
	}

	return map[string]float64{
		"quality": total / float64(len(scores)),
	}, nil
}

// renderPrompt executes the prompt template for one sample and appends the
// JSON format instruction the verdict parser depends on.
func (g *JudgeGenerator) renderPrompt(prediction, reference string) (string, error) {
	var buf strings.Builder
	data := struct {
		Prediction string
		Reference  string
	}{
		Prediction: prediction,
		Reference:  reference,
	}
	if err := g.promptTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	buf.WriteString("\n\nIMPORTANT: You must respond with valid JSON in exactly this format:\n")
	buf.WriteString(`{"score": <0.0-1.0>, "reasoning": "<brief explanation>"}`)

	return buf.String(), nil
}

// judgeVerdict is the structured response expected from the judge model.
type judgeVerdict struct {
	// Score rates the prediction's quality against the reference (0.0-1.0).
	Score float64 `json:"score" validate:"min=0.0,max=1.0"`
	// Reasoning explains the score.
	Reasoning string `json:"reasoning"`
}

// parseJudgeVerdict extracts the score and reasoning from a judge response.
// It tolerates surrounding prose and markdown fences around the JSON body.
func parseJudgeVerdict(response string) (judgeVerdict, error) {
	jsonStr := extractJSON(response)
	if jsonStr == "" {
		return judgeVerdict{}, fmt.Errorf("no valid JSON found in response (response length: %d chars)", len(response))
	}

	var verdict judgeVerdict
	if err := json.Unmarshal([]byte(jsonStr), &verdict); err != nil {
		return judgeVerdict{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := validate.Struct(verdict); err != nil {
		return judgeVerdict{}, fmt.Errorf("score %.3f outside [0, 1]: %w", verdict.Score, err)
	}

	return verdict, nil
}

// extractJSON attempts to extract a JSON object from a response that might
// contain additional text before or after it. It handles markdown code
// blocks and text surrounding the JSON object.
func extractJSON(response string) string {
	response = strings.TrimSpace(response)

	// Prefer an explicit json code block when present.
	if idx := strings.Index(response, "```json"); idx != -1 {
		rest := response[idx+7:]
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
	}

	// Generic code blocks may still wrap JSON.
	if idx := strings.Index(response, "```"); idx != -1 {
		rest := response[idx+3:]
		if nl := strings.Index(rest, "\n"); nl != -1 {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end != -1 {
			candidate := strings.TrimSpace(rest[:end])
			if strings.HasPrefix(candidate, "{") {
				return candidate
			}
		}
	}

	// Fall back to brace matching, tracking strings and escapes so braces
	// inside reasoning text don't terminate the object early.
	start := strings.Index(response, "{")
	if start == -1 {
		return ""
	}

	braceCount := 0
	inString := false
	escapeNext := false

	for i := start; i < len(response); i++ {
		char := response[i]

		if escapeNext {
			escapeNext = false
			continue
		}
		if char == '\\' {
			escapeNext = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case '{':
			braceCount++
		case '}':
			braceCount--
			if braceCount == 0 {
				return response[start : i+1]
			}
		}
	}

	return ""
}

// newJudgeFromOptions builds a judge generator from local backend options.
// The provider's API key falls back to the backend-level key when the
// judge block does not carry its own.
func newJudgeFromOptions(config BackendConfig, opts map[string]any) (*JudgeGenerator, error) {
	provider := ExtractOptionalString(opts, "provider", "", IsNonEmptyString)
	if provider == "" {
		return nil, fmt.Errorf("judge requires a provider option")
	}

	apiKey := ExtractOptionalString(opts, "api_key", config.APIKey, IsNonEmptyString)

	client, err := NewJudgeClient(provider, JudgeProviderConfig{
		APIKey:  apiKey,
		Model:   ExtractOptionalString(opts, "model", "", nil),
		BaseURL: ExtractOptionalString(opts, "base_url", "", nil),
		Timeout: ExtractOptionalDuration(opts, "timeout", config.Timeout),
	})
	if err != nil {
		return nil, err
	}

	return NewJudgeGenerator(client, JudgeConfig{
		PromptTemplate: ExtractOptionalString(opts, "prompt_template", "", nil),
		MaxConcurrency: ExtractOptionalInt(opts, "max_concurrency", 0, IsPositiveInt),
		Temperature:    ExtractOptionalFloat64(opts, "temperature", 0, func(v float64) bool { return v >= 0 && v <= 2 }),
		MaxTokens:      ExtractOptionalInt(opts, "max_tokens", 0, IsPositiveInt),
	})
}
