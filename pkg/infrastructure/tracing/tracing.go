// Package tracing wraps the global OpenTelemetry tracer. No exporter is
// configured here; spans are dropped unless the host installs a provider.
package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/healsync/dispatch"

// Tracer returns the dispatch tracer from the global provider
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// GetTraceID extracts the trace ID from context
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}

// TimedSpan is a helper for timing operations within a span
type TimedSpan struct {
	span      trace.Span
	startTime time.Time
}

// StartTimedSpan starts a new timed span
func StartTimedSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, *TimedSpan) {
	ctx, span := Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, &TimedSpan{span: span, startTime: time.Now()}
}

// SetAttributes adds attributes to the span
func (ts *TimedSpan) SetAttributes(attrs ...attribute.KeyValue) {
	ts.span.SetAttributes(attrs...)
}

// End ends the timed span and returns its duration
func (ts *TimedSpan) End() time.Duration {
	duration := time.Since(ts.startTime)
	ts.span.SetAttributes(attribute.Int64("duration_ms", duration.Milliseconds()))
	ts.span.SetStatus(codes.Ok, "")
	ts.span.End()
	return duration
}

// EndWithError ends the span, recording err when non-nil
func (ts *TimedSpan) EndWithError(err error) time.Duration {
	if err == nil {
		return ts.End()
	}
	duration := time.Since(ts.startTime)
	ts.span.RecordError(err)
	ts.span.SetStatus(codes.Error, err.Error())
	ts.span.End()
	return duration
}

// Traced wraps an operation with a span
func Traced[T any](ctx context.Context, spanName string, operation func(context.Context) (T, error)) (T, error) {
	ctx, span := StartTimedSpan(ctx, spanName)
	result, err := operation(ctx)
	span.EndWithError(err)
	return result, err
}

// AllocationAttributes returns the span attributes of an allocation pass
func AllocationAttributes(runID string, orders, capacity int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("allocation.run_id", runID),
		attribute.Int("allocation.orders", orders),
		attribute.Int("allocation.delivery_capacity", capacity),
	}
}

// ScoreAttributes returns the span attributes of a scorer evaluation
func ScoreAttributes(scorer, level string, score float64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("score.scorer", scorer),
		attribute.String("score.level", level),
		attribute.Float64("score.value", score),
	}
}
