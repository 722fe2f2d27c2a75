package registrar

import (
	"strings"
	"sync"
	"time"
)

const defaultSweepEvery = 100

// TTLPolicy selects a TTL from the cache key when none is given explicitly.
type TTLPolicy struct {
	Pricing     time.Duration
	DomainCheck time.Duration
	Default     time.Duration
}

// DefaultTTLPolicy returns 24h for pricing keys, 60s for domain checks and 5m otherwise.
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		Pricing:     24 * time.Hour,
		DomainCheck: 60 * time.Second,
		Default:     5 * time.Minute,
	}
}

// withDefaults fills zero durations from DefaultTTLPolicy.
func (p TTLPolicy) withDefaults() TTLPolicy {
	def := DefaultTTLPolicy()
	if p.Pricing <= 0 {
		p.Pricing = def.Pricing
	}
	if p.DomainCheck <= 0 {
		p.DomainCheck = def.DomainCheck
	}
	if p.Default <= 0 {
		p.Default = def.Default
	}
	return p
}

// TTLFor returns the TTL class for key.
func (p TTLPolicy) TTLFor(key string) time.Duration {
	switch {
	case strings.HasPrefix(key, pricingKeyPrefix):
		return p.Pricing
	case strings.HasPrefix(key, domainCheckKeyPrefix):
		return p.DomainCheck
	default:
		return p.Default
	}
}

// CacheStats is a diagnostic snapshot of the cache.
type CacheStats struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Expired int `json:"expired"`
}

// cacheEntry stores a value with its insertion time and TTL.
type cacheEntry struct {
	data       any
	insertedAt time.Time
	ttl        time.Duration
}

func (e cacheEntry) expired(now time.Time) bool {
	return now.Sub(e.insertedAt) > e.ttl
}

// ResponseCache is an in-memory TTL cache keyed by pre-namespaced strings.
//
// Expired entries are never returned. They are removed on the read that finds
// them, on Delete/Clear, or by the sweep run every SweepEvery insertions.
type ResponseCache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	policy     TTLPolicy
	sweepEvery int
	inserts    int
	now        func() time.Time
}

// CacheOptions configures a ResponseCache.
type CacheOptions struct {
	Policy     TTLPolicy
	SweepEvery int
	Now        func() time.Time
}

// NewResponseCache builds an empty cache.
func NewResponseCache(opts CacheOptions) *ResponseCache {
	if opts.SweepEvery <= 0 {
		opts.SweepEvery = defaultSweepEvery
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ResponseCache{
		entries:    map[string]cacheEntry{},
		policy:     opts.Policy.withDefaults(),
		sweepEvery: opts.SweepEvery,
		now:        opts.Now,
	}
}

// Set stores value under key with the TTL the policy assigns to the key.
func (c *ResponseCache) Set(key string, value any) {
	c.SetWithTTL(key, value, 0)
}

// SetWithTTL stores value under key. A ttl <= 0 falls back to the key policy.
func (c *ResponseCache) SetWithTTL(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.policy.TTLFor(key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{data: value, insertedAt: c.now(), ttl: ttl}
	c.inserts++
	if c.inserts%c.sweepEvery == 0 {
		c.sweepLocked()
	}
}

// Get returns the live value for key.
func (c *ResponseCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if entry.expired(c.now()) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.data, true
}

// Has reports whether key holds a live value.
func (c *ResponseCache) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Delete removes key.
func (c *ResponseCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes every entry.
func (c *ResponseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]cacheEntry{}
}

// Sweep removes all expired entries and returns how many were dropped.
func (c *ResponseCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked()
}

// Stats scans the cache and counts live and expired entries.
func (c *ResponseCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	stats := CacheStats{Total: len(c.entries)}
	for _, entry := range c.entries {
		if entry.expired(now) {
			stats.Expired++
		} else {
			stats.Active++
		}
	}
	return stats
}

func (c *ResponseCache) sweepLocked() int {
	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if entry.expired(now) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// getTyped reads key from cache and type-asserts it, treating a type mismatch as a miss.
func getTyped[T any](c *ResponseCache, key string) (T, bool) {
	var zero T
	value, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := value.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
