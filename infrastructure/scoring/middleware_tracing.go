package scoring

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-scorecard/internal/domain"
	"github.com/ahrav/go-scorecard/internal/ports"
)

// tracedScorer implements distributed tracing for scoring requests.
// Request spans nest under the batch span the engine's observer opens,
// giving one trace per fan-out batch with a child span per model.
type tracedScorer struct {
	next   ports.Scorer
	tracer trace.Tracer
}

// TracingMiddleware creates middleware that wraps each scoring request in
// an OpenTelemetry span. The serviceName identifies the tracer scope.
func TracingMiddleware(serviceName string) Middleware {
	tracer := otel.Tracer(serviceName)
	return func(next ports.Scorer) ports.Scorer {
		return &tracedScorer{
			next:   next,
			tracer: tracer,
		}
	}
}

// Score executes the request within a span carrying the backend, model,
// dataset, and batch size attributes. Failures are recorded on the span
// with error status; successes record the generator count.
func (t *tracedScorer) Score(ctx context.Context, req domain.ScoreRequest) (domain.ScoreResponse, error) {
	ctx, span := t.tracer.Start(ctx, "Scorer.Score",
		trace.WithAttributes(
			attribute.String("scoring.backend", t.next.Backend()),
			attribute.String("scoring.model", req.Model),
			attribute.String("scoring.dataset", req.Dataset),
			attribute.Int("scoring.examples", len(req.Examples)),
		),
	)
	defer span.End()

	resp, err := t.next.Score(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("scoring.generators", len(resp)))
	span.SetStatus(codes.Ok, "")
	return resp, nil
}

// Backend returns the backend name from the wrapped implementation.
func (t *tracedScorer) Backend() string { return t.next.Backend() }
