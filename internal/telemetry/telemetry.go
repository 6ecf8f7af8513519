// Package telemetry configures trace export. With no collector endpoint
// configured the global tracer stays a no-op and spans cost nothing.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Setup installs a global tracer provider exporting OTLP/HTTP to endpoint
// (host:port). An empty endpoint is a no-op. The returned function flushes
// and shuts the exporter down.
func Setup(ctx context.Context, endpoint, version string, logger *slog.Logger) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create OTLP exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", "zilliz-mcp"),
		attribute.String("service.version", version),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	logger.Info("trace export enabled", "endpoint", endpoint)
	return tp.Shutdown, nil
}
