// Package application provides the orchestration layer of the scorecard:
// the Engine that fans scoring requests out per active model, reconciles
// settled results into the metrics store, and the synchronous event bus
// that re-runs aggregation when workspace state changes.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-scorecard/internal/domain"
	"github.com/ahrav/go-scorecard/internal/ports"
)

// Metric names recorded through the MetricsCollector port.
const (
	metricPendingBatches   = "pending_batches"
	metricBatchesStarted   = "batches_started_total"
	metricBatchesDiscarded = "batches_discarded_total"
	metricStoreRows        = "store_rows"

	operationBatchSettle = "batch_settle"
)

// Providers bundles the workspace state ports the engine reads on every
// aggregation. All fields are required; the engine holds no workspace state
// of its own beyond the metrics rows it derives.
type Providers struct {
	// State exposes the dataset, selection, and active models.
	State ports.StateProvider
	// Slices exposes the named example slices.
	Slices ports.SliceProvider
	// Facets exposes the facet dimensions and the slice toggle.
	Facets ports.FacetSettings
	// Calibration exposes per-model scoring calibration.
	Calibration ports.CalibrationProvider
}

// EngineConfig carries the engine's tunables and optional collaborators.
// The zero value is usable: no concurrency limit, discarded logs, no-op
// observer and metrics, and the pure domain grouper.
type EngineConfig struct {
	// MaxConcurrentRequests caps how many scoring requests one batch may
	// have in flight at once. Zero or negative means no limit.
	MaxConcurrentRequests int

	// Logger receives debug-level batch lifecycle logs. Nil discards.
	Logger *slog.Logger

	// Observer receives start/settle hooks around each batch.
	Observer ports.BatchObserver

	// Metrics receives engine counters, gauges, and latencies.
	Metrics ports.MetricsCollector

	// Grouper partitions examples for faceted aggregation.
	Grouper ports.Grouper
}

// Engine is the fetch orchestrator. AddMetrics issues one scoring request
// per active model for an example batch; results settle asynchronously into
// the row store, keyed so that refreshed aggregations reconcile in place.
// A failed batch is discarded whole and the next triggering event is the
// only recovery path; the engine never retries and never cancels a
// superseded batch, so overlapping batches resolve last-settled-wins per
// row key.
type Engine struct {
	scorer      ports.Scorer
	state       ports.StateProvider
	slices      ports.SliceProvider
	facets      ports.FacetSettings
	calibration ports.CalibrationProvider
	grouper     ports.Grouper

	store    *domain.MetricsStore
	observer ports.BatchObserver
	metrics  ports.MetricsCollector
	logger   *slog.Logger

	maxConcurrent int

	// pending counts issued-but-unsettled batches and drives Loading().
	pending  atomic.Int64
	inflight sync.WaitGroup

	subscribeOnce sync.Once
}

// NewEngine creates an engine over the given scoring backend and workspace
// providers. It validates the required collaborators and installs no-op
// defaults for the optional ones.
func NewEngine(scorer ports.Scorer, providers Providers, config EngineConfig) (*Engine, error) {
	if scorer == nil {
		return nil, errors.New("scorer cannot be nil")
	}
	if providers.State == nil {
		return nil, errors.New("state provider cannot be nil")
	}
	if providers.Slices == nil {
		return nil, errors.New("slice provider cannot be nil")
	}
	if providers.Facets == nil {
		return nil, errors.New("facet settings cannot be nil")
	}
	if providers.Calibration == nil {
		return nil, errors.New("calibration provider cannot be nil")
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	observer := config.Observer
	if observer == nil {
		observer = ports.NoopBatchObserver{}
	}
	metrics := config.Metrics
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	grouper := config.Grouper
	if grouper == nil {
		grouper = ports.GrouperFunc(domain.GroupByFeatures)
	}

	return &Engine{
		scorer:        scorer,
		state:         providers.State,
		slices:        providers.Slices,
		facets:        providers.Facets,
		calibration:   providers.Calibration,
		grouper:       grouper,
		store:         domain.NewMetricsStore(),
		observer:      observer,
		metrics:       metrics,
		logger:        logger,
		maxConcurrent: config.MaxConcurrentRequests,
	}, nil
}

// AddMetrics requests metrics for the example batch from every active model
// and reconciles the results into the store under the given origin. It
// returns immediately; the batch settles on its own goroutine. An empty
// batch or an empty active-model set is a complete no-op: no requests, no
// counter change, no store mutation.
func (e *Engine) AddMetrics(ctx context.Context, examples []domain.Example, origin domain.Origin) {
	if len(examples) == 0 {
		return
	}
	models := e.state.ActiveModels()
	if len(models) == 0 {
		return
	}

	batch := ports.BatchInfo{
		Group:        origin.Label(),
		Kind:         origin.Kind(),
		Faceted:      origin.IsFaceted(),
		Dataset:      e.state.DatasetName(),
		Models:       models,
		ExampleCount: len(examples),
	}

	inFlight := e.pending.Add(1)
	e.inflight.Add(1)
	e.metrics.RecordGauge(metricPendingBatches, float64(inFlight), nil)
	e.metrics.RecordCounter(metricBatchesStarted, 1, map[string]string{"group": batch.Group})

	batchCtx := e.observer.BatchStarted(ctx, batch)
	start := time.Now()

	e.logger.Debug("metrics batch issued",
		"group", batch.Group,
		"models", len(models),
		"examples", batch.ExampleCount)

	go func() {
		var settleErr error
		defer func() {
			elapsed := time.Since(start)
			remaining := e.pending.Add(-1)
			e.metrics.RecordGauge(metricPendingBatches, float64(remaining), nil)
			e.metrics.RecordLatency(operationBatchSettle, elapsed, map[string]string{"group": batch.Group})
			e.observer.BatchSettled(batchCtx, batch, elapsed, settleErr)
			e.inflight.Done()
		}()

		settleErr = e.runBatch(batchCtx, examples, origin, batch)
	}()
}

// runBatch issues the batch's scoring requests concurrently and, when every
// request succeeds, merges the responses into the store. Any failure
// discards the whole batch; the store is never touched by a failed batch.
func (e *Engine) runBatch(ctx context.Context, examples []domain.Example, origin domain.Origin, batch ports.BatchInfo) error {
	responses := make([]domain.ScoreResponse, len(batch.Models))

	g, gctx := errgroup.WithContext(ctx)
	if e.maxConcurrent > 0 {
		g.SetLimit(e.maxConcurrent)
	}

	for i, model := range batch.Models {
		g.Go(func() error {
			req := domain.ScoreRequest{
				Examples: examples,
				Model:    model,
				Dataset:  batch.Dataset,
				Kind:     domain.RequestMetrics,
				Config:   e.calibration.CalibrationConfig(model),
			}

			resp, err := e.scorer.Score(gctx, req)
			if err != nil {
				return fmt.Errorf("scoring model %s: %w", model, err)
			}
			responses[i] = resp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.metrics.RecordCounter(metricBatchesDiscarded, 1, map[string]string{"group": batch.Group})
		e.logger.Debug("metrics batch discarded",
			"group", batch.Group,
			"models", len(batch.Models),
			"examples", batch.ExampleCount,
			"error", err)
		return err
	}

	exampleIDs := domain.ExampleIDs(examples)
	for i, model := range batch.Models {
		e.mergeResponse(model, origin, exampleIDs, responses[i])
	}
	e.metrics.RecordGauge(metricStoreRows, float64(e.store.Len()), nil)

	e.logger.Debug("metrics batch settled",
		"group", batch.Group,
		"rows", e.store.Len())
	return nil
}

// mergeResponse upserts one model's response: one row per generator field
// entry. Generators are visited in sorted order so the store's insertion
// order is deterministic for a given response.
func (e *Engine) mergeResponse(model string, origin domain.Origin, exampleIDs []string, resp domain.ScoreResponse) {
	generators := make([]string, 0, len(resp))
	for name := range resp {
		generators = append(generators, name)
	}
	sort.Strings(generators)

	for _, generator := range generators {
		for _, field := range resp[generator] {
			e.store.Upsert(domain.NewMetricsRow(model, field.PredKey, origin, exampleIDs, generator, field.Metrics))
		}
	}
}

// Pending returns the number of batches issued but not yet settled.
func (e *Engine) Pending() int64 { return e.pending.Load() }

// Loading reports whether any batch is still in flight. It drives loading
// indicators in rendering layers.
func (e *Engine) Loading() bool { return e.pending.Load() > 0 }

// Wait blocks until every in-flight batch has fully settled, including its
// observer hooks. Intended for tests, shutdown, and example programs.
func (e *Engine) Wait() { e.inflight.Wait() }

// Rows returns a snapshot of the stored metrics rows in insertion order.
func (e *Engine) Rows() []domain.MetricsRow { return e.store.Rows() }

// Table projects the current store rows against the currently selected
// facet dimensions. The projection is recomputed on every call.
func (e *Engine) Table() domain.Table {
	return domain.ProjectTable(e.store.Rows(), e.facets.FacetDimensions())
}
