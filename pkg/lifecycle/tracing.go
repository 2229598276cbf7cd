package lifecycle

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/vango-dev/lifecycle"

var tracer = otel.Tracer(tracerName)

func startSpan(op string, id uint64, name string) trace.Span {
	_, span := tracer.Start(context.Background(), "lifecycle."+op,
		trace.WithAttributes(
			attribute.Int64("component.id", int64(id)),
			attribute.String("component.name", name),
		),
	)
	return span
}
