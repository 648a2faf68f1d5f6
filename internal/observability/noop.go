package observability

import (
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// NewNoopTracer creates a tracer that does nothing.
func NewNoopTracer() *Tracer {
	return &Tracer{
		tracer: tracenoop.NewTracerProvider().Tracer(""),
	}
}

// NewNoopMetrics creates metrics that do nothing.
func NewNoopMetrics() *Metrics {
	meter := noop.NewMeterProvider().Meter("")
	m := &Metrics{}
	m.evalDuration, _ = meter.Float64Histogram("formula.evaluate.duration") //nolint:errcheck
	m.evalCount, _ = meter.Int64Counter("formula.evaluate.count")           //nolint:errcheck
	m.errorCount, _ = meter.Int64Counter("formula.error.count")             //nolint:errcheck
	return m
}
