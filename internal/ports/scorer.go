// Package ports defines the core interfaces that form the contract between
// the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system testable.
package ports

import (
	"context"

	"github.com/ahrav/go-scorecard/internal/domain"
)

// Scorer is the scoring backend contract: compute evaluation metrics for a
// batch of examples against one model. Implementations are expected to be
// network services or in-process generator banks; either way a call is
// treated as asynchronous and failable by the engine, which issues one call
// per active model concurrently.
type Scorer interface {
	// Score computes metrics for every example in the request's batch.
	// It returns the per-generator results, or an error when the backend
	// rejects or fails the request. There is no partial-result contract:
	// an error means the response carries nothing usable.
	//
	// Implementations should respect context cancellation and return
	// promptly; the engine itself never cancels superseded requests.
	Score(ctx context.Context, req domain.ScoreRequest) (domain.ScoreResponse, error)

	// Backend returns the backend identifier for logging and metrics.
	Backend() string
}
