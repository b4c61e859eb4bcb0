package scoring

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// OpenAIDefaultJudgeModel is the default OpenAI judge model.
	OpenAIDefaultJudgeModel = "gpt-4o-mini"
)

func init() {
	RegisterJudgeProvider("openai", newOpenAIJudgeClient)
}

// openAIJudgeClient implements the JudgeClient interface for OpenAI's API.
// This adapter handles OpenAI-specific request formatting and response
// parsing while conforming to the common judge interface.
type openAIJudgeClient struct {
	client          *openai.Client
	model           string
	errorClassifier *ErrorClassifier
}

// newOpenAIJudgeClient creates a new OpenAI judge client instance.
// This factory function initializes the client with configuration
// and validates required settings like API key presence.
func newOpenAIJudgeClient(config JudgeProviderConfig) (JudgeClient, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	model := config.Model
	if model == "" {
		model = OpenAIDefaultJudgeModel
	}

	clientConfig := openai.DefaultConfig(config.APIKey)

	if config.BaseURL != "" {
		validatedURL, err := ValidateBaseURL(config.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid BaseURL: %w", err)
		}
		clientConfig.BaseURL = validatedURL
	}

	if config.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{
			Timeout: ValidateTimeout(config.Timeout),
		}
	}

	return &openAIJudgeClient{
		client:          openai.NewClientWithConfig(clientConfig),
		model:           model,
		errorClassifier: &ErrorClassifier{Backend: "openai"},
	}, nil
}

// Model returns the configured OpenAI model name.
func (c *openAIJudgeClient) Model() string { return c.model }

// Complete sends a judge prompt to the OpenAI API and returns the response
// text. It handles OpenAI-specific request formatting and error
// classification.
func (c *openAIJudgeClient) Complete(ctx context.Context, prompt string, opts map[string]any) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	if temp := ExtractOptionalFloat64(opts, "temperature", 0, nil); temp > 0 {
		// OpenAI API supports a temperature range of 0.0 to 2.0.
		req.Temperature = float32(ClampFloat64(temp, 0.0, 2.0))
	}

	if maxTokens := ExtractOptionalInt(opts, "max_tokens", 0, IsPositiveInt); maxTokens > 0 {
		req.MaxTokens = maxTokens
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", c.handleError(err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}

// handleError classifies and wraps errors from the OpenAI API.
// It distinguishes between context-related errors, API errors, and other
// failures, wrapping them in standardized error types.
func (c *openAIJudgeClient) handleError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return c.errorClassifier.ClassifyContextError(err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = "unknown error"
		}
		return c.errorClassifier.ClassifyHTTPError(apiErr.HTTPStatusCode, message, err)
	}

	return NewBackendError("openai", ErrorTypeUnknown, 0, "request failed", err)
}
