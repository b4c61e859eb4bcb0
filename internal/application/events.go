package application

import (
	"context"
	"sync"

	"github.com/ahrav/go-scorecard/internal/domain"
)

// Event names one workspace change the engine reacts to. Publishers fire an
// event after the corresponding provider state has been updated, so
// handlers always observe the post-change state.
type Event string

// Workspace events.
const (
	// EventDatasetReplaced fires when the active dataset's example set is
	// swapped for a new one.
	EventDatasetReplaced Event = "dataset.replaced"

	// EventSelectionReplaced fires when the current selection changes,
	// including to empty.
	EventSelectionReplaced Event = "selection.replaced"

	// EventSliceSetChanged fires when slices are added, removed, or their
	// membership changes.
	EventSliceSetChanged Event = "slices.changed"

	// EventCalibrationChanged fires when any model's calibration config
	// changes.
	EventCalibrationChanged Event = "calibration.changed"

	// EventFacetDimensionsChanged fires when the selected facet dimensions
	// change.
	EventFacetDimensionsChanged Event = "facets.dimensions_changed"

	// EventSliceFacetsToggled fires when the slice facet toggle flips.
	EventSliceFacetsToggled Event = "facets.slices_toggled"
)

// Handler reacts to one published event.
type Handler func(ctx context.Context)

// Bus is a synchronous in-process event bus: Publish runs every subscribed
// handler, in subscription order, before returning. Handlers that spawn
// asynchronous work, like the engine's fetch batches, still return
// promptly. Subscribe and Publish are safe for concurrent use.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Event][]Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Event][]Handler)}
}

// Subscribe registers the handler for the event. Nil handlers are ignored.
func (b *Bus) Subscribe(event Event, handler Handler) {
	if handler == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], handler)
}

// Publish synchronously invokes every handler subscribed to the event.
// Events without subscribers are dropped silently.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event]))
	copy(handlers, b.handlers[event])
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(ctx)
	}
}

// Subscribe wires the engine's aggregation routines to the workspace
// events. The engine subscribes exactly once; calls after the first are
// no-ops, so an engine cannot double-handle an event even if wired into
// the same bus twice.
func (e *Engine) Subscribe(bus *Bus) {
	e.subscribeOnce.Do(func() {
		bus.Subscribe(EventDatasetReplaced, e.handleDatasetReplaced)
		bus.Subscribe(EventSelectionReplaced, e.handleSelectionReplaced)
		bus.Subscribe(EventSliceSetChanged, e.UpdateSliceMetrics)
		bus.Subscribe(EventCalibrationChanged, e.handleCalibrationChanged)
		bus.Subscribe(EventFacetDimensionsChanged, e.UpdateAllFacetedMetrics)
		bus.Subscribe(EventSliceFacetsToggled, e.UpdateSliceMetrics)
	})
}

// handleDatasetReplaced purges the dataset's unfaceted rows, re-aggregates
// the new dataset, and rebuilds every faceted row. Eviction is synchronous;
// replacement rows settle asynchronously.
func (e *Engine) handleDatasetReplaced(ctx context.Context) {
	e.store.Evict(domain.UnfacetedOfKind(domain.OriginDataset))
	e.AddMetrics(ctx, e.state.DatasetExamples(), domain.DatasetOrigin())
	e.UpdateAllFacetedMetrics(ctx)
}

// handleSelectionReplaced purges the selection's unfaceted rows,
// re-aggregates the selection when it is non-empty, and rebuilds every
// faceted row. An emptied selection purges without issuing any fetch.
func (e *Engine) handleSelectionReplaced(ctx context.Context) {
	e.store.Evict(domain.UnfacetedOfKind(domain.OriginSelection))
	if selection := e.state.SelectionExamples(); len(selection) > 0 {
		e.AddMetrics(ctx, selection, domain.SelectionOrigin())
	}
	e.UpdateAllFacetedMetrics(ctx)
}

// handleCalibrationChanged recomputes every row group under the new
// calibration. Unchanged row keys reconcile in place through upsert, so no
// unfaceted eviction is needed.
func (e *Engine) handleCalibrationChanged(ctx context.Context) {
	e.AddMetrics(ctx, e.state.DatasetExamples(), domain.DatasetOrigin())
	if selection := e.state.SelectionExamples(); len(selection) > 0 {
		e.AddMetrics(ctx, selection, domain.SelectionOrigin())
	}
	e.UpdateAllFacetedMetrics(ctx)
	e.UpdateSliceMetrics(ctx)
}
