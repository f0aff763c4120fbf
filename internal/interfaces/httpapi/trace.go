package httpapi

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("match-stats-scheduler/internal/interfaces/httpapi")

// handlerSpan opens a child of the otelhttp server span. Requests filtered out
// by RequestTracing carry no span and get the non-recording one from ctx.
func handlerSpan(r *http.Request, name string) (context.Context, trace.Span) {
	ctx := r.Context()
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, "httpapi."+name,
		trace.WithAttributes(attribute.String("http.route", r.URL.Path)),
	)
}

func markSpanFailed(ctx context.Context, err error, kind string) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, kind)
}
