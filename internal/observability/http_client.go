package observability

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// WrapTransport returns a round tripper decorator that instruments outgoing catalogue
// requests. It uses otelhttp for trace propagation and HTTP semantic attributes.
func WrapTransport(cfg *Config) func(http.RoundTripper) http.RoundTripper {
	if !cfg.IsEnabled() {
		// Return a passthrough decorator if nothing is configured
		return func(next http.RoundTripper) http.RoundTripper {
			return next
		}
	}

	opts := []otelhttp.Option{
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "HTTP " + r.Method
		}),
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelhttp.WithTracerProvider(cfg.TracerProvider))
	}
	if cfg.MeterProvider != nil {
		opts = append(opts, otelhttp.WithMeterProvider(cfg.MeterProvider))
	}

	return func(next http.RoundTripper) http.RoundTripper {
		return otelhttp.NewTransport(next, opts...)
	}
}
