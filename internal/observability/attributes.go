// Package observability provides OpenTelemetry-based instrumentation for the catalogue client.
//
// It supports distributed tracing, metrics collection, and enhanced structured logging.
//
// All observability features are opt-in. When not configured, no-op implementations
// are used with zero performance overhead.
package observability

import "go.opentelemetry.io/otel/attribute"

// Instrumentation identity constants
const (
	// TracerName is the instrumentation name for tracing.
	TracerName = "github.com/MrChebur/Copernicus-OData-wrapper"
	// MeterName is the instrumentation name for metrics.
	MeterName = "github.com/MrChebur/Copernicus-OData-wrapper"
)

// Catalogue semantic attribute keys following OpenTelemetry conventions.
const (
	AttrOperation = "csc.operation"

	// HTTP attributes (OpenTelemetry semantic conventions)
	AttrHTTPMethod     = "http.request.method"
	AttrHTTPStatusCode = "http.response.status_code"
	AttrURLFull        = "url.full"

	// AttrQueryPrefix prefixes one attribute per rendered query option,
	// e.g. csc.query.filter or csc.query.top.
	AttrQueryPrefix = "csc.query."

	// Result attributes
	AttrResultCount = "csc.result.count"
	AttrTotalCount  = "csc.result.total"
	AttrHasNextLink = "csc.has_next_link"

	// Error attributes
	AttrErrorKind = "csc.error.kind"

	// AttrServerTimingPrefix prefixes one attribute per Server-Timing metric the
	// catalogue reports, valued in milliseconds.
	AttrServerTimingPrefix = "csc.server_timing."
)

// Operation types for the csc.operation attribute.
const (
	OpSearch   = "search"
	OpNextPage = "next_page"
	OpByNames  = "by_names"
	OpNodes    = "nodes"
)

// Log field keys for structured logging with trace context.
const (
	LogFieldOperation   = "csc.operation"
	LogFieldURL         = "url"
	LogFieldStatus      = "status"
	LogFieldTraceID     = "trace_id"
	LogFieldSpanID      = "span_id"
	LogFieldDuration    = "duration_ms"
	LogFieldResultCount = "result_count"
	LogFieldError       = "error"
)

// OperationAttr creates an attribute for the operation type.
func OperationAttr(op string) attribute.KeyValue {
	return attribute.String(AttrOperation, op)
}

// URLAttr creates an attribute for the full request URL.
func URLAttr(url string) attribute.KeyValue {
	return attribute.String(AttrURLFull, url)
}

// HTTPMethodAttr creates an attribute for the request method.
func HTTPMethodAttr(method string) attribute.KeyValue {
	return attribute.String(AttrHTTPMethod, method)
}

// HTTPStatusAttr creates an attribute for the response status code.
func HTTPStatusAttr(code int) attribute.KeyValue {
	return attribute.Int(AttrHTTPStatusCode, code)
}

// QueryOptionAttr creates an attribute for one rendered query option.
func QueryOptionAttr(name, value string) attribute.KeyValue {
	return attribute.String(AttrQueryPrefix+name, value)
}

// ResultCountAttr creates an attribute for the number of products on a page.
func ResultCountAttr(count int64) attribute.KeyValue {
	return attribute.Int64(AttrResultCount, count)
}

// TotalCountAttr creates an attribute for the @odata.count value.
func TotalCountAttr(count int64) attribute.KeyValue {
	return attribute.Int64(AttrTotalCount, count)
}

// HasNextLinkAttr creates an attribute telling whether another page exists.
func HasNextLinkAttr(ok bool) attribute.KeyValue {
	return attribute.Bool(AttrHasNextLink, ok)
}

// ErrorKindAttr creates an attribute for the classified error kind.
func ErrorKindAttr(kind string) attribute.KeyValue {
	return attribute.String(AttrErrorKind, kind)
}
