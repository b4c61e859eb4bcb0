package scoring

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	// AnthropicDefaultJudgeModel is the default Anthropic judge model.
	AnthropicDefaultJudgeModel = "claude-3-5-sonnet-20241022"
)

func init() {
	RegisterJudgeProvider("anthropic", newAnthropicJudgeClient)
}

// anthropicJudgeClient implements the JudgeClient interface for Anthropic's
// Claude API. This adapter handles Anthropic-specific request formatting
// and response parsing while conforming to the common judge interface.
type anthropicJudgeClient struct {
	client          anthropic.Client
	model           string
	errorClassifier *ErrorClassifier
}

// newAnthropicJudgeClient creates a new Anthropic judge client instance.
// This factory function configures the client for Anthropic's API and
// validates that required configuration is present.
func newAnthropicJudgeClient(config JudgeProviderConfig) (JudgeClient, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	model := config.Model
	if model == "" {
		model = AnthropicDefaultJudgeModel
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		validatedURL, err := ValidateBaseURL(config.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid BaseURL: %w", err)
		}
		opts = append(opts, option.WithBaseURL(validatedURL))
	}

	return &anthropicJudgeClient{
		client:          anthropic.NewClient(opts...),
		model:           model,
		errorClassifier: &ErrorClassifier{Backend: "anthropic"},
	}, nil
}

// Model returns the configured Anthropic model name.
func (c *anthropicJudgeClient) Model() string { return c.model }

// Complete sends a judge prompt to Anthropic's Claude API and returns the
// response text. Anthropic requires an explicit max_tokens, so the judge
// default is applied when the caller supplies none.
func (c *anthropicJudgeClient) Complete(ctx context.Context, prompt string, opts map[string]any) (string, error) {
	maxTokens := ExtractOptionalInt(opts, "max_tokens", DefaultJudgeMaxTokens, IsPositiveInt)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	if temp := ExtractOptionalFloat64(opts, "temperature", 0, nil); temp > 0 {
		params.Temperature = anthropic.Float(ClampFloat64(temp, 0.0, 1.0))
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", c.handleError(err)
	}

	var responseText strings.Builder
	for _, block := range message.Content {
		switch content := block.AsAny().(type) {
		case anthropic.TextBlock:
			responseText.WriteString(content.Text)
		}
	}

	response := responseText.String()
	if response == "" {
		return "", ErrEmptyResponse
	}

	return response, nil
}

// handleError classifies and wraps errors from the Anthropic API.
func (c *anthropicJudgeClient) handleError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return c.errorClassifier.ClassifyContextError(err)
	}

	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return c.errorClassifier.ClassifyHTTPError(anthropicErr.StatusCode, "", err)
	}

	return NewBackendError("anthropic", ErrorTypeUnknown, 0, "request failed", err)
}
