package scoring

import (
	"fmt"
	"net/url"
	"time"

	"github.com/ahrav/go-scorecard/internal/domain"
)

// Input validation constants shared by all backends.
const (
	// MaxBatchExamples is the maximum number of examples allowed in one
	// score request.
	MaxBatchExamples = 10000
	// MaxFieldLength is the maximum allowed length for any string field
	// value (10MB).
	MaxFieldLength = 10 * 1024 * 1024 // 10MB
	// MinTimeout is the minimum allowed duration for a request timeout.
	MinTimeout = 1 * time.Second
	// MaxTimeout is the maximum allowed duration for a request timeout.
	MaxTimeout = 10 * time.Minute
)

// ValidateRequest checks the structural invariants every backend relies on:
// a non-empty batch within size limits and a named model.
func ValidateRequest(req domain.ScoreRequest) error {
	if len(req.Examples) == 0 {
		return ErrEmptyBatch
	}
	if len(req.Examples) > MaxBatchExamples {
		return fmt.Errorf("too many examples: %d exceeds limit of %d", len(req.Examples), MaxBatchExamples)
	}
	if req.Model == "" {
		return ErrEmptyModel
	}
	return nil
}

// ValidateBaseURL validates and normalizes a base URL string.
// It ensures the URL has a valid scheme (http or https) and a host.
// An empty string is considered valid and returns no error, allowing for
// default URLs.
func ValidateBaseURL(baseURL string) (string, error) {
	if baseURL == "" {
		// An empty URL is valid; it signifies that a default should be used.
		return "", nil
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	if parsedURL.Scheme == "" {
		return "", fmt.Errorf("URL must include a scheme (e.g., http:// or https://)")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", fmt.Errorf("URL scheme must be http or https, but got: %s", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return "", fmt.Errorf("URL must include a host")
	}

	return parsedURL.String(), nil
}

// ValidateTimeout ensures the timeout is within a reasonable range.
// If the timeout is zero or negative, it returns zero to indicate that the
// default should be used. If it's outside the [MinTimeout, MaxTimeout]
// range, it clamps it to the nearest boundary.
func ValidateTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		// A zero or negative timeout indicates that the default should be used.
		return 0
	}
	if timeout < MinTimeout {
		return MinTimeout
	}
	if timeout > MaxTimeout {
		return MaxTimeout
	}
	return timeout
}

// ClampFloat64 clamps a float64 value to be within the specified min and max range.
func ClampFloat64(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
