package observability

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Config selects which instrumentation the formula service emits.
type Config struct {
	// TracerProvider receives a span per evaluated formula. Nil disables
	// tracing.
	TracerProvider trace.TracerProvider

	// MeterProvider receives evaluation counts and durations. Nil disables
	// metrics.
	MeterProvider metric.MeterProvider

	// ServiceName is set as service.name on every evaluation span.
	ServiceName string

	// EnableServerTiming adds parse and eval durations to responses in a
	// Server-Timing header.
	EnableServerTiming bool

	tracer  *Tracer
	metrics *Metrics
}

// Option modifies a Config.
type Option func(*Config)

// WithTracerProvider traces evaluations with tp.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) {
		c.TracerProvider = tp
	}
}

// WithMeterProvider records evaluation metrics with mp.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Config) {
		c.MeterProvider = mp
	}
}

// WithServiceName names the service on spans. An empty name is omitted.
func WithServiceName(name string) Option {
	return func(c *Config) {
		c.ServiceName = name
	}
}

// WithServerTiming turns on Server-Timing headers.
func WithServerTiming() Option {
	return func(c *Config) {
		c.EnableServerTiming = true
	}
}

// NewConfig applies opts over the defaults. The result needs Initialize
// before its Tracer and Metrics are live.
func NewConfig(opts ...Option) *Config {
	c := &Config{ServiceName: "formula"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize builds the tracer and metric instruments. A missing provider
// gets a no-op stand-in.
func (c *Config) Initialize() {
	c.tracer = NewNoopTracer()
	if c.TracerProvider != nil {
		c.tracer = NewTracer(c.TracerProvider, c.ServiceName)
	}
	c.metrics = NewNoopMetrics()
	if c.MeterProvider != nil {
		c.metrics = NewMetrics(c.MeterProvider)
	}
}

// Tracer returns the tracer built by Initialize. A nil or uninitialized
// Config gives a no-op tracer.
func (c *Config) Tracer() *Tracer {
	if c == nil || c.tracer == nil {
		return NewNoopTracer()
	}
	return c.tracer
}

// Metrics returns the instruments built by Initialize, or no-op ones.
func (c *Config) Metrics() *Metrics {
	if c == nil || c.metrics == nil {
		return NewNoopMetrics()
	}
	return c.metrics
}

// ServerTimingEnabled reports whether responses carry Server-Timing. It is
// safe on a nil Config.
func (c *Config) ServerTimingEnabled() bool {
	return c != nil && c.EnableServerTiming
}
