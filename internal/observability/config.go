package observability

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// DefaultServiceName names the client in spans and metrics unless overridden.
const DefaultServiceName = "copernicus-odata"

// Config carries the OpenTelemetry providers shared by the catalogue client and the
// product archive. A nil Config, or one without providers, records nothing.
type Config struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider

	ServiceName    string
	ServiceVersion string

	// Archive statements get one db.<operation> span each.
	EnableDetailedDBTracing bool
	// Each rendered $-option becomes a csc.query.* attribute of the request span.
	EnableQueryOptionTracing bool
	// Server-Timing response headers are copied onto the request span.
	EnableServerTiming bool

	tracer  *Tracer
	metrics *Metrics
}

// Option sets one field of a Config.
type Option func(*Config)

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) { c.TracerProvider = tp }
}

func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Config) { c.MeterProvider = mp }
}

func WithServiceName(name string) Option {
	return func(c *Config) { c.ServiceName = name }
}

func WithServiceVersion(version string) Option {
	return func(c *Config) { c.ServiceVersion = version }
}

// WithDetailedDBTracing traces archive statements. It has no effect without a
// tracer provider.
func WithDetailedDBTracing() Option {
	return func(c *Config) { c.EnableDetailedDBTracing = true }
}

func WithQueryOptionTracing() Option {
	return func(c *Config) { c.EnableQueryOptionTracing = true }
}

func WithServerTiming() Option {
	return func(c *Config) { c.EnableServerTiming = true }
}

// NewConfig applies opts over DefaultServiceName and builds the tracer and
// instruments. Missing providers fall back to no-op implementations.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{ServiceName: DefaultServiceName}
	for _, opt := range opts {
		opt(cfg)
	}

	cfg.tracer = NewNoopTracer()
	if cfg.TracerProvider != nil {
		cfg.tracer = NewTracer(cfg.TracerProvider, cfg.ServiceName)
	}
	cfg.metrics = NewNoopMetrics()
	if cfg.MeterProvider != nil {
		cfg.metrics = NewMetrics(cfg.MeterProvider)
	}
	return cfg
}

func (c *Config) Tracer() *Tracer {
	if c == nil || c.tracer == nil {
		return NewNoopTracer()
	}
	return c.tracer
}

func (c *Config) Metrics() *Metrics {
	if c == nil || c.metrics == nil {
		return NewNoopMetrics()
	}
	return c.metrics
}

// IsEnabled reports whether either provider is set.
func (c *Config) IsEnabled() bool {
	return c != nil && (c.TracerProvider != nil || c.MeterProvider != nil)
}

func (c *Config) QueryOptionTracingEnabled() bool {
	return c != nil && c.EnableQueryOptionTracing
}

func (c *Config) ServerTimingEnabled() bool {
	return c != nil && c.EnableServerTiming
}
