package cmd

import (
	"context"
	"errors"
	"log/slog"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	copernicus "github.com/MrChebur/Copernicus-OData-wrapper"
	"github.com/MrChebur/Copernicus-OData-wrapper/internal/observability"
	"github.com/MrChebur/Copernicus-OData-wrapper/internal/store"
)

const serviceName = "cscquery"

// telemetry records the spans and metrics of one command run and writes them to
// the log. Spans are logged as they end, metrics once on shutdown.
type telemetry struct {
	traces  *sdktrace.TracerProvider
	metrics *sdkmetric.MeterProvider
	reader  *sdkmetric.ManualReader
	logger  *slog.Logger
}

func newTelemetry(logger *slog.Logger) *telemetry {
	reader := sdkmetric.NewManualReader()
	return &telemetry{
		traces:  sdktrace.NewTracerProvider(sdktrace.WithSyncer(spanLogger{logger: logger})),
		metrics: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
		reader:  reader,
		logger:  logger,
	}
}

func (t *telemetry) clientOption() copernicus.Option {
	return copernicus.WithObservability(copernicus.ObservabilityConfig{
		TracerProvider:           t.traces,
		MeterProvider:            t.metrics,
		ServiceName:              serviceName,
		ServiceVersion:           Version,
		EnableQueryOptionTracing: true,
		EnableServerTiming:       true,
	})
}

func (t *telemetry) storeOption() store.Option {
	return store.WithObservability(observability.NewConfig(
		observability.WithTracerProvider(t.traces),
		observability.WithMeterProvider(t.metrics),
		observability.WithServiceName(serviceName),
		observability.WithServiceVersion(Version),
		observability.WithDetailedDBTracing(),
	))
}

func (t *telemetry) shutdown(ctx context.Context) error {
	var rm metricdata.ResourceMetrics
	if err := t.reader.Collect(ctx, &rm); err != nil {
		t.logger.Warn("Failed to collect metrics", "error", err)
	}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			t.logger.Info("metric", "name", m.Name, "unit", m.Unit, "description", m.Description)
		}
	}
	return errors.Join(t.traces.Shutdown(ctx), t.metrics.Shutdown(ctx))
}

// spanLogger is a span exporter writing one log record per ended span.
type spanLogger struct {
	logger *slog.Logger
}

func (e spanLogger) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		attrs := []any{
			"name", s.Name(),
			"duration", s.EndTime().Sub(s.StartTime()),
			"trace_id", s.SpanContext().TraceID().String(),
			"status", s.Status().Code.String(),
		}
		for _, kv := range s.Attributes() {
			attrs = append(attrs, string(kv.Key), kv.Value.Emit())
		}
		e.logger.Info("span", attrs...)
	}
	return nil
}

func (spanLogger) Shutdown(context.Context) error { return nil }
