// Package telemetry provides observability adapters for the metrics engine.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-scorecard/internal/ports"
)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It exposes batch throughput, per-request scoring outcomes,
// and engine state such as pending batches and store size.
type PrometheusMetrics struct {
	batchesStarted    *prometheus.CounterVec
	batchesDiscarded  *prometheus.CounterVec
	scoringRequests   *prometheus.CounterVec
	scoringExamples   *prometheus.CounterVec
	scoringLatency    *prometheus.HistogramVec
	operationDuration *prometheus.HistogramVec
	operationCounter  *prometheus.CounterVec
	systemGauges      *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance and registers
// all required metrics in the global Prometheus registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		// Batch lifecycle metrics.
		batchesStarted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "batches_started_total",
				Help: "Total number of scoring batches dispatched, by example group.",
			},
			[]string{"group"},
		),
		batchesDiscarded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "batches_discarded_total",
				Help: "Total number of batches discarded because a request failed or the origin went stale.",
			},
			[]string{"group"},
		),

		// Scoring backend metrics.
		scoringRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scoring_requests_total",
				Help: "Total number of scoring requests, by backend, model, and outcome.",
			},
			[]string{"backend", "model", "status"},
		),
		scoringExamples: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scoring_examples_total",
				Help: "Total number of examples carried by successful scoring requests.",
			},
			[]string{"backend", "model", "status"},
		),
		scoringLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scoring_latency_seconds",
				Help:    "Latency of individual scoring requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend", "model", "status"},
		),

		// General engine metrics for comprehensive observability.
		operationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "engine_operation_duration_seconds",
				Help:    "Execution time of engine operations such as batch settlement.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "group"},
		),
		operationCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_operations_total",
				Help: "Total number of operations performed by the metrics engine.",
			},
			[]string{"operation", "group"},
		),
		systemGauges: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "engine_system_state",
				Help: "Current engine state values, such as pending batches and store rows.",
			},
			[]string{"metric"},
		),
	}
}

// RecordLatency implements the MetricsCollector interface by recording
// operation latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	group := labelOrUnknown(labels, "group")
	pm.operationDuration.WithLabelValues(operation, group).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters. Known metrics route to their dedicated vectors;
// anything else lands on the generic operation counter.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case "batches_started_total":
		pm.batchesStarted.WithLabelValues(labelOrUnknown(labels, "group")).Add(value)
	case "batches_discarded_total":
		pm.batchesDiscarded.WithLabelValues(labelOrUnknown(labels, "group")).Add(value)
	case "scoring_requests_total":
		pm.scoringRequests.WithLabelValues(scoringLabels(labels)...).Add(value)
	case "scoring_examples_total":
		pm.scoringExamples.WithLabelValues(scoringLabels(labels)...).Add(value)
	default:
		pm.operationCounter.WithLabelValues(metric, labelOrUnknown(labels, "group")).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values. Engine gauges share one vector keyed by the
// metric name, since none of them carry extra dimensions.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, _ map[string]string,
) {
	pm.systemGauges.WithLabelValues(metric).Set(value)
}

// RecordHistogram implements the MetricsCollector interface by recording
// values in a Prometheus histogram. Unrecognized metrics fall through to
// the operation duration histogram with the metric name as the operation.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case "scoring_latency_seconds":
		pm.scoringLatency.WithLabelValues(scoringLabels(labels)...).Observe(value)
	default:
		pm.operationDuration.WithLabelValues(metric, labelOrUnknown(labels, "group")).Observe(value)
	}
}

// labelOrUnknown reads one label value, defaulting when absent or empty so
// partial label sets never produce unbounded cardinality.
func labelOrUnknown(labels map[string]string, key string) string {
	value, ok := labels[key]
	if !ok || value == "" {
		return "unknown"
	}
	return value
}

// scoringLabels extracts the backend, model, and status labels that all
// scoring request metrics share.
func scoringLabels(labels map[string]string) []string {
	return []string{
		labelOrUnknown(labels, "backend"),
		labelOrUnknown(labels, "model"),
		labelOrUnknown(labels, "status"),
	}
}

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
