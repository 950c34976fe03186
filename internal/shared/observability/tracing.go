// # internal/shared/observability/tracing.go
package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "relight"

// Tracer is the package-wide tracer. It follows whatever provider is
// installed globally, so it is a noop until InitTracing succeeds.
var Tracer trace.Tracer = otel.Tracer(tracerName)

// InitTracing installs an OTLP/gRPC exporter when endpoint is set. The
// returned shutdown func flushes pending spans and is safe to call when
// tracing is disabled.
func InitTracing(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	Tracer = tp.Tracer(tracerName)
	return tp.Shutdown, nil
}
