// Package scoring provides the metric scoring backends behind the
// ports.Scorer contract, with built-in support for rate limiting,
// timeouts, metrics, and tracing.
//
// The package abstracts multiple backends (a remote HTTP scoring service
// and an in-process generator bank) behind a common interface while adding
// operational cross-cutting concerns through a middleware pattern. This
// allows the aggregation engine to switch backends or add operational
// features without changing engine code.
//
// Architecture:
//   - Backend registry keyed by backend name for factory-based construction
//   - Pluggable middleware for rate limiting, timeouts, metrics, tracing
//   - Remote backend speaking JSON over HTTP
//   - Local backend composing deterministic metric generators and an
//     optional LLM judge
//
// Basic usage:
//
//	scorer, err := scoring.NewScorer("local", scoring.BackendConfig{
//	    Options: map[string]any{
//	        "fields": []any{map[string]any{"pred": "label", "label": "y"}},
//	    },
//	})
//	resp, err := scorer.Score(ctx, req)
//
// Usage with middleware:
//
//	scorer, err := scoring.NewScorer("http", scoring.BackendConfig{
//	    BaseURL: "https://scores.internal:8443",
//	    Middleware: []scoring.Middleware{
//	        scoring.RateLimitMiddleware(20, 40),
//	        scoring.TimeoutMiddleware(30*time.Second),
//	        scoring.MetricsMiddleware(metricsCollector),
//	    },
//	})
package scoring

import (
	"fmt"
	"time"

	"github.com/ahrav/go-scorecard/internal/ports"
)

// Middleware wraps a ports.Scorer implementation to add cross-cutting
// functionality. This pattern allows composition of features like rate
// limiting, timeouts, and metrics collection without modifying backend logic.
type Middleware func(ports.Scorer) ports.Scorer

// BackendConfig holds all configuration options for creating a scoring
// backend. This struct centralizes settings shared across backends and
// carries backend-specific options as an open map.
type BackendConfig struct {
	// BaseURL is the endpoint of a remote scoring service.
	// Backends that run in-process ignore it.
	BaseURL string

	// APIKey authenticates requests to external services used by the
	// backend, such as LLM judge providers.
	APIKey string

	// Timeout sets the maximum duration for individual backend requests.
	// Zero value means no timeout.
	Timeout time.Duration

	// Options carries backend-specific configuration such as field
	// mappings for the local backend.
	Options map[string]any

	// Middleware allows custom middleware insertion.
	// These are applied in the order specified.
	Middleware []Middleware
}

// BackendFactory creates a ports.Scorer implementation from configuration.
// This function signature allows the backend registry to create backend
// instances without knowing their specific implementation details.
type BackendFactory func(BackendConfig) (ports.Scorer, error)

// Backend factory registry for extensibility.
// This allows registration of custom backends at runtime
// while maintaining type safety and initialization validation.
var backendFactories = map[string]BackendFactory{}

// RegisterBackendFactory allows registration of custom scoring backend
// factories. This enables extension with additional backends without
// modifying the core package.
func RegisterBackendFactory(backend string, factory BackendFactory) {
	backendFactories[backend] = factory
}

// NewScorer creates a scoring backend of the named kind and wraps it with
// the configured middleware chain. The backend name must match a registered
// factory such as "local" or "http".
func NewScorer(backend string, config BackendConfig) (ports.Scorer, error) {
	factory, ok := backendFactories[backend]
	if !ok {
		return nil, fmt.Errorf("unknown scoring backend: %s", backend)
	}

	scorer, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create scoring backend: %w", err)
	}

	// Apply middleware in reverse order so the first middleware is the outermost.
	for i := len(config.Middleware) - 1; i >= 0; i-- {
		scorer = config.Middleware[i](scorer)
	}

	return scorer, nil
}
