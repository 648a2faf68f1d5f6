// Package observability provides OpenTelemetry instrumentation for the formula
// service.
//
// Tracing, metrics, and Server-Timing headers are opt-in. When they are not
// configured, no-op implementations are used.
package observability

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel/attribute"
)

// Instrumentation identity.
const (
	TracerName = "github.com/zephyrtronium/formula"
	MeterName  = "github.com/zephyrtronium/formula"
)

// Span attribute keys.
const (
	AttrFormulaHash   = "formula.hash"
	AttrFormulaLength = "formula.length"
	AttrPrecision     = "formula.precision"
	AttrErrorType     = "error.type"
	AttrServiceName   = "service.name"
)

// Structured log field names.
const (
	LogFieldRequestID   = "request_id"
	LogFieldFormulaHash = "formula_hash"
	LogFieldDuration    = "duration_ms"
	LogFieldStatus      = "status"
	LogFieldError       = "error"
	LogFieldTraceID     = "trace_id"
	LogFieldSpanID      = "span_id"
)

// FormulaHash identifies a formula in logs and traces without recording its
// text. Equal formulas always have equal hashes.
func FormulaHash(formula string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(formula))
}

// FormulaAttrs returns the span attributes describing a formula.
func FormulaAttrs(formula string, prec uint) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrFormulaHash, FormulaHash(formula)),
		attribute.Int(AttrFormulaLength, len(formula)),
	}
	if prec > 0 {
		attrs = append(attrs, attribute.Int(AttrPrecision, int(prec)))
	}
	return attrs
}
