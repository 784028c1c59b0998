package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransportGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "Name eq 'x'", r.URL.Query().Get("$filter"))
		w.Header().Set("Server-Timing", "db;dur=12.5")
		_, _ = io.WriteString(w, `{"value":[]}`)
	}))
	defer srv.Close()

	tr := NewHTTPTransport()
	resp, err := tr.Get(context.Background(), srv.URL+"/Products?$filter=Name%20eq%20'x'", Timeout{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"value":[]}`, string(resp.Body))
	assert.Equal(t, "db;dur=12.5", resp.Header.Get("Server-Timing"))
	assert.Contains(t, resp.URL, "/Products")
}

func TestHTTPTransportPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"FilterProducts":[{"Name":"a"}]}`, string(body))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"value":[]}`)
	}))
	defer srv.Close()

	tr := NewHTTPTransport(WithUserAgent("test-agent"))
	resp, err := tr.Post(context.Background(), srv.URL, Timeout{}, []byte(`{"FilterProducts":[{"Name":"a"}]}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestHTTPTransportErrorStatusIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Unauthorized"}`)
	}))
	defer srv.Close()

	resp, err := NewHTTPTransport().Get(context.Background(), srv.URL, Timeout{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, `{"detail":"Unauthorized"}`, string(resp.Body))
}

func TestHTTPTransportReadTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewHTTPTransport().Get(context.Background(), srv.URL, Timeout{Connect: time.Second, Read: 50 * time.Millisecond})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GET "+srv.URL)
}

func TestHTTPTransportContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "{}")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHTTPTransport().Get(ctx, srv.URL, Timeout{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestHTTPTransportProxy(t *testing.T) {
	var proxied atomic.Bool
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxied.Store(true)
		assert.Equal(t, "catalogue.invalid", r.URL.Host)
		_, _ = io.WriteString(w, `{"value":[]}`)
	}))
	defer proxy.Close()

	proxyURL, err := url.Parse(proxy.URL)
	require.NoError(t, err)

	tr := NewHTTPTransport(WithProxy(proxyURL))
	resp, err := tr.Get(context.Background(), "http://catalogue.invalid/odata/v1/Products?", Timeout{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, proxied.Load())
}

func TestHTTPTransportRoundTripperWrapper(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "yes", r.Header.Get("X-Wrapped"))
		_, _ = io.WriteString(w, "{}")
	}))
	defer srv.Close()

	var calls atomic.Int32
	tr := NewHTTPTransport(WithRoundTripper(func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			calls.Add(1)
			r.Header.Set("X-Wrapped", "yes")
			return next.RoundTrip(r)
		})
	}))

	for i := 0; i < 2; i++ {
		_, err := tr.Get(context.Background(), srv.URL, Timeout{})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPTransportReusesClientPerTimeout(t *testing.T) {
	tr := NewHTTPTransport()
	a := tr.client(Timeout{})
	b := tr.client(DefaultTimeout)
	c := tr.client(Timeout{Connect: time.Second, Read: time.Second})

	assert.Same(t, a, b, "zero timeout resolves to the defaults")
	assert.NotSame(t, a, c)
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
