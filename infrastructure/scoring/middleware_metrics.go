package scoring

import (
	"context"
	"errors"
	"time"

	"github.com/ahrav/go-scorecard/internal/domain"
	"github.com/ahrav/go-scorecard/internal/ports"
)

// metricsScorer implements request metrics collection.
// This provides observability into request patterns, latency, batch sizes,
// and error rates for operational monitoring.
type metricsScorer struct {
	next      ports.Scorer
	collector ports.MetricsCollector
}

// MetricsMiddleware creates middleware that collects scoring request metrics.
// This enables monitoring of backend usage and performance per model.
func MetricsMiddleware(collector ports.MetricsCollector) Middleware {
	return func(next ports.Scorer) ports.Scorer {
		return &metricsScorer{
			next:      next,
			collector: collector,
		}
	}
}

// Score executes the request while collecting detailed metrics.
// This tracks request latency, outcome status, and batch sizes labeled by
// backend and model.
func (m *metricsScorer) Score(ctx context.Context, req domain.ScoreRequest) (domain.ScoreResponse, error) {
	start := time.Now()
	resp, err := m.next.Score(ctx, req)

	labels := map[string]string{
		"backend": m.next.Backend(),
		"model":   req.Model,
		"status":  "success",
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			labels["status"] = "timeout"
		} else if errors.Is(err, context.Canceled) {
			labels["status"] = "canceled"
		} else {
			labels["status"] = "error"
		}
	}

	if m.collector != nil {
		m.collector.RecordHistogram("scoring_latency_seconds", time.Since(start).Seconds(), labels)
		m.collector.RecordCounter("scoring_requests_total", 1, labels)

		if err == nil {
			m.collector.RecordCounter("scoring_examples_total", float64(len(req.Examples)), labels)
		}
	}

	return resp, err
}

// Backend returns the backend name from the wrapped implementation.
func (m *metricsScorer) Backend() string { return m.next.Backend() }
