// Package telemetry provides observability adapters for the metrics engine.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-scorecard/internal/ports"
)

var _ ports.BatchObserver = (*OTelBatchObserver)(nil)

// OTelBatchObserver implements batch observability using OpenTelemetry
// tracing. It opens one span per fan-out batch, annotates it with the
// batch's group, origin, and size, and records settlement outcomes.
//
// The span travels in the batch context rather than observer fields, so a
// single observer instance handles overlapping batches safely. Latency and
// throughput metrics stay with the engine's MetricsCollector; this observer
// only traces.
type OTelBatchObserver struct {
	tracer trace.Tracer
}

// NewOTelBatchObserver creates a new OpenTelemetry batch observer.
func NewOTelBatchObserver() *OTelBatchObserver {
	return &OTelBatchObserver{tracer: otel.Tracer("metrics-engine")}
}

// BatchStarted implements the BatchObserver interface. It starts a span
// describing the batch and returns the context carrying it.
func (o *OTelBatchObserver) BatchStarted(ctx context.Context, batch ports.BatchInfo) context.Context {
	ctx, span := o.tracer.Start(ctx, "Engine.ScoreBatch")

	span.SetAttributes(
		attribute.String("batch.group", batch.Group),
		attribute.String("batch.kind", batch.Kind.String()),
		attribute.Bool("batch.faceted", batch.Faceted),
		attribute.String("batch.dataset", batch.Dataset),
		attribute.StringSlice("batch.models", batch.Models),
		attribute.Int("batch.examples", batch.ExampleCount),
	)

	return ctx
}

// BatchSettled implements the BatchObserver interface. It finalizes the
// batch's span, recording whether the results were merged or discarded.
func (o *OTelBatchObserver) BatchSettled(ctx context.Context, batch ports.BatchInfo, elapsed time.Duration, err error) {
	span := trace.SpanFromContext(ctx)
	defer span.End()

	span.SetAttributes(attribute.Float64("batch.settle_seconds", elapsed.Seconds()))

	if err != nil {
		span.AddEvent("batch.discarded", trace.WithAttributes(
			attribute.String("reason", err.Error()),
		))
		span.RecordError(err)
		span.SetStatus(codes.Error, "batch discarded")
		return
	}

	span.AddEvent("batch.merged", trace.WithAttributes(
		attribute.Int("models_scored", len(batch.Models)),
		attribute.Int("examples_scored", batch.ExampleCount),
	))
	span.SetStatus(codes.Ok, "batch merged into store")
}
