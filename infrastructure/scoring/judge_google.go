package scoring

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

const (
	// GoogleDefaultJudgeModel is the default Google judge model.
	GoogleDefaultJudgeModel = "gemini-2.0-flash-exp"
)

func init() {
	RegisterJudgeProvider("google", newGoogleJudgeClient)
}

// googleJudgeClient implements the JudgeClient interface for Google's
// Gemini API. This adapter handles Google-specific authentication, request
// formatting, and error handling while conforming to the common judge
// interface.
type googleJudgeClient struct {
	client          *genai.Client
	model           string
	errorClassifier *ErrorClassifier
}

// newGoogleJudgeClient creates a new Google Gemini judge client instance.
// This factory function configures the client and authenticates using the
// provided API key.
func newGoogleJudgeClient(config JudgeProviderConfig) (JudgeClient, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	model := config.Model
	if model == "" {
		model = GoogleDefaultJudgeModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Google client: %w", err)
	}

	return &googleJudgeClient{
		client:          client,
		model:           model,
		errorClassifier: &ErrorClassifier{Backend: "google"},
	}, nil
}

// Model returns the configured Google model name.
func (c *googleJudgeClient) Model() string { return c.model }

// Complete sends a judge prompt to the Google Gemini API and returns the
// response text.
func (c *googleJudgeClient) Complete(ctx context.Context, prompt string, opts map[string]any) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	genConfig := &genai.GenerateContentConfig{}
	if temp := ExtractOptionalFloat64(opts, "temperature", 0, nil); temp > 0 {
		// Clamp temperature to the supported range of 0.0 to 2.0 for Gemini.
		genConfig.Temperature = genai.Ptr(float32(ClampFloat64(temp, 0.0, 2.0)))
	}
	if maxTokens := ExtractOptionalInt(opts, "max_tokens", 0, IsPositiveInt); maxTokens > 0 {
		genConfig.MaxOutputTokens = int32(maxTokens)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, genConfig)
	if err != nil {
		return "", c.handleError(err)
	}

	response := resp.Text()
	if response == "" {
		return "", ErrEmptyResponse
	}

	return response, nil
}

// handleError classifies and wraps errors from the Google Gemini API.
// Safety filter rejections surface as bad requests with a clear message
// rather than opaque API errors.
func (c *googleJudgeClient) handleError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return c.errorClassifier.ClassifyContextError(err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" && len(apiErr.Errors) > 0 {
			message = apiErr.Errors[0].Message
		}

		if isSafetyBlocked(apiErr) {
			return NewBackendError("google", ErrorTypeBadRequest, apiErr.Code,
				"request blocked by safety filters", err)
		}

		return c.errorClassifier.ClassifyHTTPError(apiErr.Code, message, err)
	}

	return NewBackendError("google", ErrorTypeUnknown, 0, "request failed", err)
}

// isSafetyBlocked reports whether the API error indicates a content policy
// rejection.
func isSafetyBlocked(apiErr *googleapi.Error) bool {
	if apiErr.Message != "" {
		lower := strings.ToLower(apiErr.Message)
		if strings.Contains(lower, "safety") ||
			strings.Contains(lower, "policy") ||
			strings.Contains(lower, "blocked") {
			return true
		}
	}

	for _, e := range apiErr.Errors {
		if e.Reason == "SAFETY" || e.Reason == "BLOCKED" {
			return true
		}
	}

	return false
}
