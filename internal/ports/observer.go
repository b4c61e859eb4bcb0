package ports

import (
	"context"
	"time"

	"github.com/ahrav/go-scorecard/internal/domain"
)

// BatchInfo describes one fan-out batch: the example group being scored and
// the models the engine is about to query for it.
type BatchInfo struct {
	// Group is the row group label the batch aggregates into.
	Group string

	// Kind records the batch's origin kind.
	Kind domain.OriginKind

	// Faceted reports whether the batch carries facet values.
	Faceted bool

	// Dataset is the active dataset identifier.
	Dataset string

	// Models are the active models, one scoring request each.
	Models []string

	// ExampleCount is the size of the example batch.
	ExampleCount int
}

// BatchObserver receives hooks around each fan-out batch.
// Observers must be safe for concurrent use; overlapping batches run their
// hooks from different goroutines. Implementations thread span or timing
// state through the returned context rather than observer fields.
type BatchObserver interface {
	// BatchStarted is called before the batch's requests are issued.
	// The returned context is used for every request in the batch and is
	// handed back to BatchSettled.
	BatchStarted(ctx context.Context, batch BatchInfo) context.Context

	// BatchSettled is called exactly once after every request in the batch
	// has settled. A non-nil err means the whole batch was discarded.
	BatchSettled(ctx context.Context, batch BatchInfo, elapsed time.Duration, err error)
}

// NoopBatchObserver ignores all batch hooks.
type NoopBatchObserver struct{}

// BatchStarted implements BatchObserver.
func (NoopBatchObserver) BatchStarted(ctx context.Context, _ BatchInfo) context.Context { return ctx }

// BatchSettled implements BatchObserver.
func (NoopBatchObserver) BatchSettled(context.Context, BatchInfo, time.Duration, error) {}

// Verify interface compliance at compile time.
var _ BatchObserver = (*NoopBatchObserver)(nil)
