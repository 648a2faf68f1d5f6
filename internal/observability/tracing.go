package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps an OpenTelemetry tracer with formula span constructors.
type Tracer struct {
	tracer      trace.Tracer
	serviceName string
}

// NewTracer creates a Tracer using the given TracerProvider.
func NewTracer(tp trace.TracerProvider, serviceName string) *Tracer {
	return &Tracer{
		tracer:      tp.Tracer(TracerName),
		serviceName: serviceName,
	}
}

// StartEvaluate starts a span covering the parse and evaluation of a formula.
// A prec of zero denotes float64 evaluation.
func (t *Tracer) StartEvaluate(ctx context.Context, formula string, prec uint) (context.Context, trace.Span) {
	attrs := FormulaAttrs(formula, prec)
	if t.serviceName != "" {
		attrs = append(attrs, attribute.String(AttrServiceName, t.serviceName))
	}
	return t.tracer.Start(ctx, "formula.evaluate", trace.WithAttributes(attrs...))
}

// RecordError records err on the span and marks the span failed.
func (t *Tracer) RecordError(span trace.Span, err error, errorType string) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetAttributes(attribute.String(AttrErrorType, errorType))
	span.SetStatus(codes.Error, err.Error())
}

// LoggerWithTrace returns a logger enriched with the trace context of ctx.
func LoggerWithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return logger
	}
	return logger.With(
		slog.String(LogFieldTraceID, span.SpanContext().TraceID().String()),
		slog.String(LogFieldSpanID, span.SpanContext().SpanID().String()),
	)
}
