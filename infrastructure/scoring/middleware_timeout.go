package scoring

import (
	"context"
	"time"

	"github.com/ahrav/go-scorecard/internal/domain"
	"github.com/ahrav/go-scorecard/internal/ports"
)

// timeoutScorer implements request timeout enforcement.
// This prevents requests from hanging indefinitely and ensures
// predictable settle times for the aggregation engine.
type timeoutScorer struct {
	next    ports.Scorer
	timeout time.Duration
}

// TimeoutMiddleware creates middleware that enforces a per-request timeout.
// A non-positive timeout disables enforcement and passes requests through
// unchanged.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next ports.Scorer) ports.Scorer {
		return &timeoutScorer{
			next:    next,
			timeout: timeout,
		}
	}
}

// Score executes the request with a deadline applied to the context.
// The wrapped scorer observes the deadline through normal context
// propagation and returns context.DeadlineExceeded when it fires.
func (t *timeoutScorer) Score(ctx context.Context, req domain.ScoreRequest) (domain.ScoreResponse, error) {
	if t.timeout <= 0 {
		return t.next.Score(ctx, req)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	return t.next.Score(ctx, req)
}

// Backend returns the backend name from the wrapped implementation.
func (t *timeoutScorer) Backend() string { return t.next.Backend() }
