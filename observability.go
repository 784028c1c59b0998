package copernicus

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/MrChebur/Copernicus-OData-wrapper/internal/observability"
)

// ObservabilityConfig configures OpenTelemetry instrumentation of the client.
// Nil providers disable the corresponding signal.
type ObservabilityConfig struct {
	// TracerProvider receives one client span per catalogue request, with the
	// otelhttp transport span as its child.
	TracerProvider trace.TracerProvider

	// MeterProvider receives request duration, request count, result count and
	// error count instruments.
	MeterProvider metric.MeterProvider

	// ServiceName identifies this client in traces and metrics.
	ServiceName string

	// ServiceVersion is the version of the calling application.
	ServiceVersion string

	// EnableQueryOptionTracing records each rendered query option as a span attribute.
	EnableQueryOptionTracing bool

	// EnableServerTiming parses the Server-Timing header of catalogue responses into
	// span attributes and the debug log.
	EnableServerTiming bool
}

func (c ObservabilityConfig) build() *observability.Config {
	opts := []observability.Option{
		observability.WithTracerProvider(c.TracerProvider),
		observability.WithMeterProvider(c.MeterProvider),
		observability.WithServiceVersion(c.ServiceVersion),
	}
	if c.ServiceName != "" {
		opts = append(opts, observability.WithServiceName(c.ServiceName))
	}
	if c.EnableQueryOptionTracing {
		opts = append(opts, observability.WithQueryOptionTracing())
	}
	if c.EnableServerTiming {
		opts = append(opts, observability.WithServerTiming())
	}
	return observability.NewConfig(opts...)
}
