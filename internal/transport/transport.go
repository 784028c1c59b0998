// Package transport performs the HTTP exchanges with the catalogue. It knows nothing
// about OData; callers hand it fully rendered URLs and JSON bodies.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Timeout bounds a single exchange: Connect limits dialing, Read limits the wait for
// the response headers. Zero fields fall back to DefaultTimeout.
type Timeout struct {
	Connect time.Duration
	Read    time.Duration
}

// DefaultTimeout is used for zero Timeout fields.
var DefaultTimeout = Timeout{Connect: 30 * time.Second, Read: 30 * time.Second}

func (t Timeout) withDefaults() Timeout {
	if t.Connect <= 0 {
		t.Connect = DefaultTimeout.Connect
	}
	if t.Read <= 0 {
		t.Read = DefaultTimeout.Read
	}
	return t
}

// Response is a fully read HTTP response.
type Response struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport issues requests against the catalogue. Implementations must be safe for
// concurrent use.
type Transport interface {
	Get(ctx context.Context, url string, timeout Timeout) (*Response, error)
	Post(ctx context.Context, url string, timeout Timeout, body []byte) (*Response, error)
}

// Option configures an HTTPTransport.
type Option func(*HTTPTransport)

// WithProxy routes every request through proxy. A nil proxy uses the environment
// (HTTP_PROXY, HTTPS_PROXY, NO_PROXY).
func WithProxy(proxy *url.URL) Option {
	return func(t *HTTPTransport) {
		t.proxy = proxy
	}
}

// WithRoundTripper wraps the underlying round tripper, e.g. with instrumentation.
func WithRoundTripper(wrap func(http.RoundTripper) http.RoundTripper) Option {
	return func(t *HTTPTransport) {
		t.wrap = wrap
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(t *HTTPTransport) {
		t.userAgent = ua
	}
}

// HTTPTransport is the net/http implementation of Transport. One client is built
// per distinct Timeout and reused afterwards.
type HTTPTransport struct {
	proxy     *url.URL
	wrap      func(http.RoundTripper) http.RoundTripper
	userAgent string

	mu      sync.Mutex
	clients map[Timeout]*http.Client
}

// NewHTTPTransport creates a transport.
func NewHTTPTransport(opts ...Option) *HTTPTransport {
	t := &HTTPTransport{
		userAgent: "copernicus-odata-go",
		clients:   make(map[Timeout]*http.Client),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *HTTPTransport) client(timeout Timeout) *http.Client {
	timeout = timeout.withDefaults()

	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.clients[timeout]; ok {
		return c
	}

	proxy := http.ProxyFromEnvironment
	if t.proxy != nil {
		proxy = http.ProxyURL(t.proxy)
	}
	dialer := &net.Dialer{Timeout: timeout.Connect, KeepAlive: 30 * time.Second}

	var rt http.RoundTripper = &http.Transport{
		Proxy:                 proxy,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   timeout.Connect,
		ResponseHeaderTimeout: timeout.Read,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
	}
	if t.wrap != nil {
		rt = t.wrap(rt)
	}

	c := &http.Client{Transport: rt}
	t.clients[timeout] = c
	return c
}

// Get issues a GET request.
func (t *HTTPTransport) Get(ctx context.Context, rawURL string, timeout Timeout) (*Response, error) {
	return t.do(ctx, http.MethodGet, rawURL, timeout, nil)
}

// Post issues a POST request with a JSON body.
func (t *HTTPTransport) Post(ctx context.Context, rawURL string, timeout Timeout, body []byte) (*Response, error) {
	return t.do(ctx, http.MethodPost, rawURL, timeout, body)
}

func (t *HTTPTransport) do(ctx context.Context, method, rawURL string, timeout Timeout, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.client(timeout).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: reading body: %w", method, rawURL, err)
	}

	return &Response{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}
