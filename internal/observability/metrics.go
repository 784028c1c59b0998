package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric instrument names.
const (
	MetricRequestDuration = "csc.client.request.duration"
	MetricRequestCount    = "csc.client.request.count"
	MetricResultCount     = "csc.client.result.count"
	MetricErrorCount      = "csc.client.error.count"
	MetricDBQueryDuration = "csc.store.query.duration"
)

// Metrics holds the client metric instruments.
type Metrics struct {
	requestDuration metric.Float64Histogram
	requestCount    metric.Int64Counter
	resultCount     metric.Int64Histogram
	errorCount      metric.Int64Counter
	dbQueryDuration metric.Float64Histogram
}

// NewMetrics creates a new Metrics instance with the given MeterProvider.
func NewMetrics(mp metric.MeterProvider) *Metrics {
	meter := mp.Meter(MeterName)
	m := &Metrics{}

	// Note: errors from meter instrument creation are unlikely in practice
	// and would only occur with invalid parameters. We use explicit checks
	// to satisfy the linter while continuing with partial metrics on error.
	var err error

	m.requestDuration, err = meter.Float64Histogram(
		MetricRequestDuration,
		metric.WithDescription("Duration of catalogue requests in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.requestDuration, _ = meter.Float64Histogram(MetricRequestDuration)
	}

	m.requestCount, err = meter.Int64Counter(
		MetricRequestCount,
		metric.WithDescription("Total number of catalogue requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		m.requestCount, _ = meter.Int64Counter(MetricRequestCount)
	}

	m.resultCount, err = meter.Int64Histogram(
		MetricResultCount,
		metric.WithDescription("Number of products returned per page"),
		metric.WithUnit("{product}"),
	)
	if err != nil {
		m.resultCount, _ = meter.Int64Histogram(MetricResultCount)
	}

	m.errorCount, err = meter.Int64Counter(
		MetricErrorCount,
		metric.WithDescription("Total number of failed catalogue requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		m.errorCount, _ = meter.Int64Counter(MetricErrorCount)
	}

	m.dbQueryDuration, err = meter.Float64Histogram(
		MetricDBQueryDuration,
		metric.WithDescription("Duration of product archive queries in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.dbQueryDuration, _ = meter.Float64Histogram(MetricDBQueryDuration)
	}

	return m
}

// RecordRequest records metrics for a completed request.
func (m *Metrics) RecordRequest(ctx context.Context, operation string, statusCode int, duration time.Duration) {
	attrs := metric.WithAttributes(
		OperationAttr(operation),
		HTTPStatusAttr(statusCode),
	)
	m.requestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	m.requestCount.Add(ctx, 1, attrs)
}

// RecordResultCount records the number of products on a returned page.
func (m *Metrics) RecordResultCount(ctx context.Context, operation string, count int64) {
	m.resultCount.Record(ctx, count, metric.WithAttributes(OperationAttr(operation)))
}

// RecordError records a failed request. errorKind is a classified remote error kind
// or "transport" / "decode".
func (m *Metrics) RecordError(ctx context.Context, operation, errorKind string) {
	attrs := metric.WithAttributes(
		OperationAttr(operation),
		ErrorKindAttr(errorKind),
	)
	m.errorCount.Add(ctx, 1, attrs)
}

// RecordDBQuery records metrics for a product archive query.
func (m *Metrics) RecordDBQuery(ctx context.Context, operation string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("db.operation", operation))
	m.dbQueryDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}
