// Package copernicus provides a client for the Copernicus Data Space Ecosystem OData
// catalogue. It builds $filter expressions and query options, issues the requests and
// maps the catalogue's error payloads to typed errors.
package copernicus

import (
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/MrChebur/Copernicus-OData-wrapper/internal/observability"
	"github.com/MrChebur/Copernicus-OData-wrapper/internal/transport"
)

// Catalogue endpoints.
const (
	DefaultEndpoint       = "https://catalogue.dataspace.copernicus.eu/odata/v1/Products"
	DefaultZipperEndpoint = "https://zipper.dataspace.copernicus.eu/odata/v1/Products"
)

// Transport performs the HTTP exchange. The default implementation uses net/http;
// tests and callers with special needs can supply their own through WithTransport.
type Transport = transport.Transport

// Response is a fully read catalogue response.
type Response = transport.Response

// Timeout is the (connect, read) timeout pair applied to every request.
type Timeout = transport.Timeout

// DefaultCacheSize bounds the response cache when WithCache is given no size.
const DefaultCacheSize = 256

// DefaultTimeout is 30 seconds to connect and 30 seconds to read.
var DefaultTimeout = transport.DefaultTimeout

// Client issues queries against the catalogue. It is safe for concurrent use.
type Client struct {
	endpoint       string
	zipperEndpoint string
	transport      transport.Transport
	timeout        transport.Timeout
	observability  *observability.Config
	logger         atomic.Pointer[slog.Logger]
}

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	endpoint       string
	zipperEndpoint string
	transport      transport.Transport
	timeout        transport.Timeout
	proxy          *url.URL
	userAgent      string
	logger         *slog.Logger
	observability  *observability.Config
	cacheTTL       time.Duration
	cacheSize      int
}

// WithEndpoint overrides the Products endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *clientConfig) {
		c.endpoint = endpoint
	}
}

// WithZipperEndpoint overrides the zipper endpoint accepted by ProductNodes.
func WithZipperEndpoint(endpoint string) Option {
	return func(c *clientConfig) {
		c.zipperEndpoint = endpoint
	}
}

// WithTransport replaces the HTTP transport. WithProxy and WithUserAgent are ignored
// when a transport is supplied.
func WithTransport(t Transport) Option {
	return func(c *clientConfig) {
		c.transport = t
	}
}

// WithTimeout sets the connect and read timeouts. Zero fields keep the 30s default.
func WithTimeout(connect, read time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = transport.Timeout{Connect: connect, Read: read}
	}
}

// WithProxy routes requests of the default transport through proxy.
func WithProxy(proxy *url.URL) Option {
	return func(c *clientConfig) {
		c.proxy = proxy
	}
}

// WithUserAgent sets the User-Agent header of the default transport.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger. If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithObservability enables tracing and metrics.
//
// Example:
//
//	client := copernicus.New(copernicus.WithObservability(copernicus.ObservabilityConfig{
//	    TracerProvider: tp,
//	    MeterProvider:  mp,
//	}))
func WithObservability(cfg ObservabilityConfig) Option {
	return func(c *clientConfig) {
		c.observability = cfg.build()
	}
}

// WithCache caches successful GET responses for ttl, keeping at most size entries
// (DefaultCacheSize when size <= 0). A ttl <= 0 disables caching.
func WithCache(ttl time.Duration, size int) Option {
	return func(c *clientConfig) {
		c.cacheTTL = ttl
		c.cacheSize = size
	}
}

// New creates a client for the public catalogue.
func New(opts ...Option) *Client {
	cfg := &clientConfig{
		endpoint:       DefaultEndpoint,
		zipperEndpoint: DefaultZipperEndpoint,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.observability == nil {
		cfg.observability = observability.NewConfig()
	}

	t := cfg.transport
	if t == nil {
		httpOpts := []transport.Option{
			transport.WithProxy(cfg.proxy),
			transport.WithRoundTripper(observability.WrapTransport(cfg.observability)),
		}
		if cfg.userAgent != "" {
			httpOpts = append(httpOpts, transport.WithUserAgent(cfg.userAgent))
		}
		t = transport.NewHTTPTransport(httpOpts...)
	}
	if cfg.cacheTTL > 0 {
		if cfg.cacheSize <= 0 {
			cfg.cacheSize = DefaultCacheSize
		}
		t = transport.NewCache(t, cfg.cacheTTL, cfg.cacheSize)
	}

	c := &Client{
		endpoint:       cfg.endpoint,
		zipperEndpoint: cfg.zipperEndpoint,
		transport:      t,
		timeout:        cfg.timeout,
		observability:  cfg.observability,
	}
	c.SetLogger(cfg.logger)
	return c
}

// Endpoint returns the Products endpoint the client queries.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// SetLogger sets a custom logger for the client.
// Passing nil restores slog.Default().
func (c *Client) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	c.logger.Store(logger)
}

func (c *Client) log() *slog.Logger {
	return c.logger.Load()
}
