package limits

import (
	"net/http"
	"sync"
)

// StoredResponse is a completed response captured for replay: body bytes,
// status code and headers exactly as first produced.
type StoredResponse struct {
	Body       []byte
	StatusCode int
	Header     http.Header
}

// IdempotencyCache maps client-supplied idempotency keys to the first
// response produced under that key. Entries are first-write-wins and never
// expire for the life of the process. The key is treated as opaque; no
// request-body hash is checked, so callers must keep keys globally unique
// per logical operation.
type IdempotencyCache struct {
	mu      sync.RWMutex
	entries map[string]*StoredResponse
}

// NewIdempotencyCache creates an empty IdempotencyCache
func NewIdempotencyCache() *IdempotencyCache {
	return &IdempotencyCache{
		entries: make(map[string]*StoredResponse),
	}
}

// Lookup returns the stored response for the key, or nil if none exists
func (c *IdempotencyCache) Lookup(key string) *StoredResponse {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.entries[key]
}

// Store records the response for the key unless one is already present.
// It returns the response now associated with the key, so concurrent
// writers that lose the race serve the winner's response rather than
// their own.
func (c *IdempotencyCache) Store(key string, resp *StoredResponse) *StoredResponse {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		return existing
	}
	c.entries[key] = resp
	return resp
}

// Len returns the number of stored entries
func (c *IdempotencyCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
