package observability

import (
	"context"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps an OpenTelemetry tracer with catalogue-specific span creation methods.
type Tracer struct {
	tracer      trace.Tracer
	serviceName string
}

// NewTracer creates a new Tracer using the given TracerProvider.
func NewTracer(tp trace.TracerProvider, serviceName string) *Tracer {
	return &Tracer{
		tracer:      tp.Tracer(TracerName),
		serviceName: serviceName,
	}
}

// StartSpan starts a new span with the given name and attributes.
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span
}

// StartRequest starts a client span for one catalogue request.
func (t *Tracer) StartRequest(ctx context.Context, operation, method, url string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "csc."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			OperationAttr(operation),
			HTTPMethodAttr(method),
			URLAttr(url),
		))
}

// StartDBQuery starts a span for a product archive query.
func (t *Tracer) StartDBQuery(ctx context.Context, operation string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "db."+operation, trace.WithAttributes(
		attribute.String("db.operation", operation),
	))
}

// SetHTTPStatus sets the HTTP status code on span.
func (t *Tracer) SetHTTPStatus(span trace.Span, statusCode int) {
	span.SetAttributes(HTTPStatusAttr(statusCode))
	if statusCode >= 400 {
		span.SetStatus(codes.Error, http.StatusText(statusCode))
	}
}

// RecordError records an error on the span.
func (t *Tracer) RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// QueryOption is one rendered query option, e.g. {"filter", "Name eq 'x'"}.
type QueryOption struct {
	Name  string
	Value string
}

// AddQueryOptions adds one attribute per rendered query option to span.
func (t *Tracer) AddQueryOptions(span trace.Span, options ...QueryOption) {
	if len(options) == 0 {
		return
	}
	attrs := make([]attribute.KeyValue, 0, len(options))
	for _, opt := range options {
		attrs = append(attrs, QueryOptionAttr(opt.Name, opt.Value))
	}
	span.SetAttributes(attrs...)
}

// AddPageResult records what a returned page contained.
func (t *Tracer) AddPageResult(span trace.Span, results int, total *int64, hasNext bool) {
	attrs := []attribute.KeyValue{
		ResultCountAttr(int64(results)),
		HasNextLinkAttr(hasNext),
	}
	if total != nil {
		attrs = append(attrs, TotalCountAttr(*total))
	}
	span.SetAttributes(attrs...)
}

// LoggerWithTrace returns a logger enriched with trace context.
func LoggerWithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return logger
	}
	return logger.With(
		slog.String(LogFieldTraceID, span.SpanContext().TraceID().String()),
		slog.String(LogFieldSpanID, span.SpanContext().SpanID().String()),
	)
}
