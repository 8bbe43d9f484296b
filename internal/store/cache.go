// Package store holds the short lived state of the scan server: result caches and
// per-client rate limit windows. Every store is an explicit value owned by its caller.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/models"
)

// ResultCache keeps recent analyses keyed by mint address.
type ResultCache interface {
	Get(ctx context.Context, address string) (*models.AnalysisResult, bool)
	Set(ctx context.Context, address string, result *models.AnalysisResult)
	// Sweep drops expired entries and reports how many were removed.
	Sweep() int
	Ping(ctx context.Context) error
}

type cachedResult struct {
	result   *models.AnalysisResult
	storedAt time.Time
}

// MemoryCache is a size bounded in-process ResultCache with a fixed TTL.
type MemoryCache struct {
	mu  sync.Mutex
	lru *simplelru.LRU[string, cachedResult]
	ttl time.Duration
	now func() time.Time
}

func NewMemoryCache(size int, ttl time.Duration) (*MemoryCache, error) {
	lru, err := simplelru.NewLRU[string, cachedResult](size, nil)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{lru: lru, ttl: ttl, now: time.Now}, nil
}

func (c *MemoryCache) Get(_ context.Context, address string) (*models.AnalysisResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.lru.Get(address)
	if !ok {
		return nil, false
	}
	if c.expired(entry) {
		c.lru.Remove(address)
		return nil, false
	}
	return entry.result, true
}

func (c *MemoryCache) Set(_ context.Context, address string, result *models.AnalysisResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Add(address, cachedResult{result: result, storedAt: c.now()})
}

func (c *MemoryCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, key := range c.lru.Keys() {
		entry, ok := c.lru.Peek(key)
		if ok && c.expired(entry) {
			c.lru.Remove(key)
			removed++
		}
	}
	return removed
}

func (c *MemoryCache) Ping(context.Context) error {
	return nil
}

func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *MemoryCache) expired(entry cachedResult) bool {
	return c.now().Sub(entry.storedAt) > c.ttl
}
