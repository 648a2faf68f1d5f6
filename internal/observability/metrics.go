package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the formula metric instruments.
type Metrics struct {
	evalDuration metric.Float64Histogram
	evalCount    metric.Int64Counter
	errorCount   metric.Int64Counter
}

// NewMetrics creates the metric instruments on the given MeterProvider.
func NewMetrics(mp metric.MeterProvider) *Metrics {
	meter := mp.Meter(MeterName)
	m := &Metrics{}

	var err error
	m.evalDuration, err = meter.Float64Histogram(
		"formula.evaluate.duration",
		metric.WithDescription("Duration of formula parsing and evaluation in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.evalDuration, _ = meter.Float64Histogram("formula.evaluate.duration")
	}

	m.evalCount, err = meter.Int64Counter(
		"formula.evaluate.count",
		metric.WithDescription("Total number of evaluated formulas"),
		metric.WithUnit("{formula}"),
	)
	if err != nil {
		m.evalCount, _ = meter.Int64Counter("formula.evaluate.count")
	}

	m.errorCount, err = meter.Int64Counter(
		"formula.error.count",
		metric.WithDescription("Total number of formulas that failed to evaluate"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		m.errorCount, _ = meter.Int64Counter("formula.error.count")
	}

	return m
}

// RecordEvaluation records a completed evaluation. An empty errorType means
// the evaluation succeeded.
func (m *Metrics) RecordEvaluation(ctx context.Context, duration time.Duration, big bool, errorType string) {
	attrs := metric.WithAttributes(attribute.Bool("formula.big", big))
	m.evalDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	m.evalCount.Add(ctx, 1, attrs)
	if errorType != "" {
		m.errorCount.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrErrorType, errorType)))
	}
}
