// Package cache provides a small in-memory TTL cache for scrape results, so
// repeated requests for the same URL within the TTL skip the whole pipeline.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/SanyamSharma26/universal-website-scraper/models"
)

// entry holds a cached document with its creation timestamp.
type entry struct {
	doc       *models.PageDocument
	createdAt time.Time
}

// Cache is a simple in-memory cache for PageDocuments.
// It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
	ttl        time.Duration
}

// New creates a Cache holding at most maxEntries documents for ttl each.
// A background goroutine evicts expired entries every 5 minutes.
// A non-positive ttl disables the cache entirely.
func New(maxEntries int, ttl time.Duration) *Cache {
	c := &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
	if ttl > 0 {
		go c.cleanupLoop()
	}
	return c
}

// Key generates a cache key from the requested URL.
func Key(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:])
}

// Get retrieves a cached document if it exists and is younger than the TTL.
func (c *Cache) Get(key string) (*models.PageDocument, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok || time.Since(e.createdAt) > c.ttl {
		return nil, false
	}
	return e.doc, true
}

// Set stores a document. If the cache is at capacity, a random entry is
// evicted to make room (map iteration is random in Go).
func (c *Cache) Set(key string, doc *models.PageDocument) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = &entry{doc: doc, createdAt: time.Now()}
}

// cleanupLoop evicts expired entries every 5 minutes.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-c.ttl)
		c.mu.Lock()
		for k, e := range c.store {
			if e.createdAt.Before(cutoff) {
				delete(c.store, k)
			}
		}
		c.mu.Unlock()
	}
}
