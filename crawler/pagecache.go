package crawler

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/rufuslabs/rufus/models"
)

// Entry is a cached page body. It deliberately carries no depth or
// navigation path: those belong to the traversal context, not the
// content, and are re-stamped on every cache hit.
type Entry struct {
	Title       string
	HTML        string // raw markup; empty for PDFs
	Text        string
	ContentType models.ContentType
}

// PageCache is a content-addressed store of fetched page bodies, keyed
// by a hash of the normalized URL. It persists across crawl invocations
// until explicitly cleared and is safe for concurrent use.
type PageCache struct {
	mu    sync.RWMutex
	store map[string]*Entry
}

// NewPageCache creates an empty PageCache.
func NewPageCache() *PageCache {
	return &PageCache{store: make(map[string]*Entry)}
}

// cacheKey hashes a normalized URL into a fixed-length store key.
func cacheKey(normalizedURL string) string {
	sum := sha256.Sum256([]byte(normalizedURL))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached entry for a normalized URL, if present.
func (c *PageCache) Get(normalizedURL string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.store[cacheKey(normalizedURL)]
	return e, ok
}

// Set stores a page body under its normalized URL.
func (c *PageCache) Set(normalizedURL string, e *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[cacheKey(normalizedURL)] = e
}

// Len returns the number of cached pages.
func (c *PageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear empties the cache.
func (c *PageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]*Entry)
}
