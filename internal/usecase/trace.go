package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("match-stats-scheduler/internal/usecase")

// startUsecaseSpan opens a span for one usecase operation. Worker runs have no
// incoming span, so the operation becomes the root of its own trace there.
func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	kind := trace.SpanKindInternal
	if !trace.SpanContextFromContext(ctx).IsValid() {
		kind = trace.SpanKindServer
	}
	return tracer.Start(ctx, name, trace.WithSpanKind(kind))
}

// traceMetaFromContext returns the hex trace and span ids stored on dispatch
// ledger rows, or empty strings when ctx is not traced.
func traceMetaFromContext(ctx context.Context) (string, string) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", ""
	}
	return sc.TraceID().String(), sc.SpanID().String()
}
