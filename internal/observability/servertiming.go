package observability

import (
	"context"
	"net/http"

	servertiming "github.com/mitchellh/go-server-timing"
)

// ServerTimingMetric wraps a Server-Timing metric. The zero value and nil are
// no-ops.
type ServerTimingMetric struct {
	metric *servertiming.Metric
}

// Stop stops the timing metric.
func (m *ServerTimingMetric) Stop() {
	if m != nil && m.metric != nil {
		m.metric.Stop()
	}
}

// StartServerTiming starts a Server-Timing metric with the given name and
// description. If ctx carries no timing header, the result is a no-op.
func StartServerTiming(ctx context.Context, name, desc string) *ServerTimingMetric {
	timing := servertiming.FromContext(ctx)
	if timing == nil {
		return &ServerTimingMetric{}
	}
	m := timing.NewMetric(name)
	if desc != "" {
		m = m.WithDesc(desc)
	}
	return &ServerTimingMetric{metric: m.Start()}
}

// ServerTimingMiddleware returns next wrapped to write a Server-Timing header
// when cfg enables it, or next itself otherwise.
func ServerTimingMiddleware(cfg *Config, next http.Handler) http.Handler {
	if !cfg.ServerTimingEnabled() {
		return next
	}
	return servertiming.Middleware(next, nil)
}
