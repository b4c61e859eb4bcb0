package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ahrav/go-scorecard/internal/domain"
	"github.com/ahrav/go-scorecard/internal/ports"
)

const (
	// httpBackendName is the registry key for the remote HTTP backend.
	httpBackendName = "http"
	// httpScorePath is the endpoint path metric requests are posted to.
	httpScorePath = "/v1/score"
	// maxErrorBodyBytes bounds how much of an error response body is read
	// for the error message.
	maxErrorBodyBytes = 4 * 1024
)

func init() {
	RegisterBackendFactory(httpBackendName, newHTTPBackend)
}

// httpBackend implements the ports.Scorer interface against a remote
// scoring service speaking JSON over HTTP. Each score request is posted as
// a single JSON document and the response body is decoded directly into
// the generator result map.
type httpBackend struct {
	client          *http.Client
	baseURL         string
	errorClassifier *ErrorClassifier
}

// newHTTPBackend creates a new remote HTTP backend instance.
// This factory function validates the configured base URL and applies the
// request timeout to the underlying HTTP client.
func newHTTPBackend(config BackendConfig) (ports.Scorer, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = ExtractOptionalString(config.Options, "base_url", "", IsNonEmptyString)
	}
	if baseURL == "" {
		return nil, fmt.Errorf("http backend requires a base URL")
	}

	validatedURL, err := ValidateBaseURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return &httpBackend{
		client: &http.Client{
			Timeout: ValidateTimeout(config.Timeout),
		},
		baseURL:         strings.TrimRight(validatedURL, "/"),
		errorClassifier: &ErrorClassifier{Backend: httpBackendName},
	}, nil
}

// Backend returns the backend identifier for logging and metrics.
func (b *httpBackend) Backend() string { return httpBackendName }

// Score posts the request to the scoring service and decodes the response.
// HTTP error statuses are classified into BackendError values; transport
// and context failures are classified the same way so callers see a
// uniform error surface regardless of where the request died.
func (b *httpBackend) Score(ctx context.Context, req domain.ScoreRequest) (domain.ScoreResponse, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode score request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+httpScorePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build score request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, b.handleTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		message := readErrorMessage(resp.Body)
		return nil, b.errorClassifier.ClassifyHTTPError(resp.StatusCode, message, nil)
	}

	var out domain.ScoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, NewBackendError(httpBackendName, ErrorTypeBadResponse, resp.StatusCode,
			"malformed response body", err)
	}

	if out == nil {
		return nil, ErrEmptyResponse
	}

	return out, nil
}

// handleTransportError classifies errors from the HTTP client.
// Context errors surface even when wrapped in url.Error values, so the
// classification checks the error chain rather than the concrete type.
func (b *httpBackend) handleTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return b.errorClassifier.ClassifyContextError(err)
	}
	return NewBackendError(httpBackendName, ErrorTypeNetwork, 0, "request failed", err)
}

// readErrorMessage extracts a bounded error message from a response body.
// Services commonly return either a JSON {"error": "..."} document or
// plain text; both collapse to a single trimmed line.
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var payload struct {
		Error string `json:"error"`
	}
	if jsonErr := json.Unmarshal(raw, &payload); jsonErr == nil && payload.Error != "" {
		return payload.Error
	}

	return strings.TrimSpace(string(raw))
}
