package scoring

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/ahrav/go-scorecard/internal/domain"
	"github.com/ahrav/go-scorecard/internal/ports"
)

// rateLimitedScorer implements rate limiting for scoring requests.
// This prevents overwhelming a remote scoring service and helps avoid
// rate limit errors from upstream APIs.
type rateLimitedScorer struct {
	next    ports.Scorer
	limiter *rate.Limiter
}

// RateLimitMiddleware creates middleware that enforces request rate limits.
// The limit parameter specifies requests per second, and burst allows
// temporary spikes above the sustained rate.
// The limiter is shared across every scorer the middleware wraps so the
// limit holds for the chain as a whole.
func RateLimitMiddleware(limit rate.Limit, burst int) Middleware {
	limiter := rate.NewLimiter(limit, burst)
	return func(next ports.Scorer) ports.Scorer {
		return &rateLimitedScorer{
			next:    next,
			limiter: limiter,
		}
	}
}

// Score delays the request until the rate limiter permits it, then delegates
// to the wrapped scorer. Waiting respects context cancellation, so a
// canceled batch never blocks on the limiter.
func (r *rateLimitedScorer) Score(ctx context.Context, req domain.ScoreRequest) (domain.ScoreResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return r.next.Score(ctx, req)
}

// Backend returns the backend name from the wrapped implementation.
func (r *rateLimitedScorer) Backend() string { return r.next.Backend() }
