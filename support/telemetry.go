package support

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/weegigs/wee-store-go/ws"
)

// TracerProvider installs a global tracer provider for the configured
// exporter. The returned cleanup flushes and shuts the provider down.
func TracerProvider(ctx context.Context, cfg Config) (*sdktrace.TracerProvider, func(), error) {
	exporter, err := spanExporter(ctx, cfg.Telemetry)
	if err != nil {
		return nil, nil, pkgerrors.Wrapf(err, "failed to create %s exporter", cfg.Telemetry.Exporter)
	}

	service := cfg.Telemetry.Service
	if service == "" {
		service = "wee-store"
	}

	options := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", service))),
	}
	if exporter != nil {
		options = append(options, sdktrace.WithBatcher(exporter))
	}

	provider := sdktrace.NewTracerProvider(options...)
	otel.SetTracerProvider(provider)

	return provider, func() {
		_ = provider.Shutdown(context.Background())
	}, nil
}

func spanExporter(ctx context.Context, cfg TelemetryConfig) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case "", "none":
		return nil, nil
	case "console":
		return ws.ConsoleExporter()
	case "otlp":
		return ws.OTLPExporter(ctx, cfg.Endpoint, cfg.Headers)
	case "honeycomb":
		return ws.HoneycombExporter(ctx, cfg.Team, cfg.Dataset)
	case "jaeger":
		return ws.JaegerExporter(cfg.Endpoint)
	default:
		return nil, pkgerrors.Errorf("unknown exporter %q", cfg.Exporter)
	}
}
