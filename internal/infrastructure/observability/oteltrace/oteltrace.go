package oteltrace

import (
	"context"

	"github.com/zenshop/orderd/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type tracer struct{ t trace.Tracer }

// New returns a Tracer backed by the global otel tracer provider.
// Wire an sdktrace.TracerProvider + exporter and otel.SetTracerProvider before use,
// otherwise spans are no-ops.
func New(name string) observability.Tracer {
	if name == "" {
		name = "orderd"
	}
	return &tracer{t: otel.Tracer(name)}
}

func (t *tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.t.Start(ctx, name, trace.WithAttributes(attrs...))
}
