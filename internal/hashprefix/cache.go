package hashprefix

import (
	"context"
	"sync"
)

// PrefixLengthCache holds the server-advertised prefix length. It is either
// unset or set; Get fills it on demand and Invalidate clears it.
//
// The mutex guards only the scalar. Fetches run outside it, so concurrent
// callers that find the cache unset may each fetch; the last writer wins,
// which is harmless because every fetch returns the current server value.
type PrefixLengthCache struct {
	fetch func(context.Context) (int, error)

	mu     sync.Mutex
	length int
	set    bool
}

// NewPrefixLengthCache returns an unset cache that calls fetch when a value
// is needed.
func NewPrefixLengthCache(fetch func(context.Context) (int, error)) *PrefixLengthCache {
	return &PrefixLengthCache{fetch: fetch}
}

// Get returns the cached length, fetching it first when unset.
func (c *PrefixLengthCache) Get(ctx context.Context) (int, error) {
	if n, ok := c.Peek(); ok {
		return n, nil
	}
	n, err := c.fetch(ctx)
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	c.length = n
	c.set = true
	c.mu.Unlock()
	return n, nil
}

// Peek returns the cached length without fetching.
func (c *PrefixLengthCache) Peek() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.length, c.set
}

// Invalidate resets the cache to unset.
func (c *PrefixLengthCache) Invalidate() {
	c.mu.Lock()
	c.length = 0
	c.set = false
	c.mu.Unlock()
}
