package transport

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Cache is a bounded Transport decorator that remembers successful GET responses for
// a fixed TTL. POST requests always reach the wrapped transport.
//
// Eviction strategy: when the cache reaches its capacity limit the entire map is
// replaced. Catalogue sessions repeat a handful of URLs (paging, retries by hand), so
// tracking individual entry ages is not worth it.
//
// Thread safety: all methods are safe for concurrent use.
type Cache struct {
	next Transport
	ttl  time.Duration
	max  int
	now  func() time.Time

	mu    sync.RWMutex
	items map[uint64]cacheEntry
}

type cacheEntry struct {
	url     string
	resp    *Response
	expires time.Time
}

// NewCache wraps next. A non-positive ttl or max disables caching.
func NewCache(next Transport, ttl time.Duration, max int) *Cache {
	return &Cache{
		next:  next,
		ttl:   ttl,
		max:   max,
		now:   time.Now,
		items: make(map[uint64]cacheEntry),
	}
}

func (c *Cache) enabled() bool {
	return c.ttl > 0 && c.max > 0
}

// Get serves rawURL from the cache when a fresh entry exists.
func (c *Cache) Get(ctx context.Context, rawURL string, timeout Timeout) (*Response, error) {
	if !c.enabled() {
		return c.next.Get(ctx, rawURL, timeout)
	}

	key := xxhash.Sum64String(rawURL)
	if resp, ok := c.get(key, rawURL); ok {
		return resp, nil
	}

	resp, err := c.next.Get(ctx, rawURL, timeout)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusOK {
		c.put(key, rawURL, resp)
	}
	return resp, nil
}

// Post is never cached.
func (c *Cache) Post(ctx context.Context, rawURL string, timeout Timeout, body []byte) (*Response, error) {
	return c.next.Post(ctx, rawURL, timeout, body)
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache) get(key uint64, rawURL string) (*Response, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	// A hash collision must not serve another URL's body.
	if !ok || e.url != rawURL || !c.now().Before(e.expires) {
		return nil, false
	}
	return e.resp.clone(), true
}

func (c *Cache) put(key uint64, rawURL string, resp *Response) {
	c.mu.Lock()
	if len(c.items) >= c.max {
		c.items = make(map[uint64]cacheEntry, c.max)
	}
	c.items[key] = cacheEntry{url: rawURL, resp: resp.clone(), expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// clone copies r so cached bodies cannot be modified through a returned response.
func (r *Response) clone() *Response {
	body := make([]byte, len(r.Body))
	copy(body, r.Body)
	return &Response{
		URL:        r.URL,
		StatusCode: r.StatusCode,
		Header:     r.Header.Clone(),
		Body:       body,
	}
}
