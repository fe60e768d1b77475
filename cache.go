package scholargo

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"strings"
	"sync"
	"time"
)

// CacheConfig holds response cache configuration.
type CacheConfig struct {
	// Enabled turns the cache on. When false, lookups always miss, stores
	// are no-ops and statistics are not updated.
	Enabled bool
	// DefaultTTL applies when no endpoint category matches.
	DefaultTTL time.Duration
	// PaperTTL applies to immutable entity lookups (paper details).
	PaperTTL time.Duration
	// SearchTTL applies to volatile results (searches, listings).
	SearchTTL time.Duration
	// MaxEntries bounds the cache size; least-recently-used entries are
	// evicted past it.
	MaxEntries int
}

// DefaultCacheConfig returns the cache defaults: enabled, 5 minute default
// and search TTLs, 1 hour paper TTL, 1000 entries.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:    true,
		DefaultTTL: 5 * time.Minute,
		PaperTTL:   time.Hour,
		SearchTTL:  5 * time.Minute,
		MaxEntries: 1000,
	}
}

// CacheEntry represents a cached response payload.
type CacheEntry struct {
	Key       string
	Value     json.RawMessage
	Endpoint  string
	ExpiresAt time.Time
}

// CacheStats reports cache effectiveness counters.
type CacheStats struct {
	Entries int
	Hits    uint64
	Misses  uint64
	HitRate float64
}

// ResponseCache is a time-bounded, capacity-bounded LRU cache of response
// payloads keyed by request fingerprint. Expired entries are evicted on
// read, not swept proactively. Safe for concurrent use.
type ResponseCache struct {
	config CacheConfig

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = most recently used
	hits    uint64
	misses  uint64
}

// NewResponseCache creates a response cache. Zero-valued TTLs and
// MaxEntries fall back to the defaults; Enabled is taken as given.
func NewResponseCache(config CacheConfig) *ResponseCache {
	defaults := DefaultCacheConfig()
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = defaults.DefaultTTL
	}
	if config.PaperTTL <= 0 {
		config.PaperTTL = defaults.PaperTTL
	}
	if config.SearchTTL <= 0 {
		config.SearchTTL = defaults.SearchTTL
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = defaults.MaxEntries
	}
	return &ResponseCache{
		config:  config,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Enabled reports whether the cache is active.
func (rc *ResponseCache) Enabled() bool {
	return rc != nil && rc.config.Enabled
}

// Config returns the cache's configuration.
func (rc *ResponseCache) Config() CacheConfig {
	return rc.config
}

// Get returns the cached payload for key. An entry past its expiry is
// treated as a miss and removed. A hit moves the entry to the
// most-recently-used position.
func (rc *ResponseCache) Get(key string) (json.RawMessage, bool) {
	if !rc.Enabled() {
		return nil, false
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	elem, exists := rc.entries[key]
	if !exists {
		rc.misses++
		return nil, false
	}

	entry := elem.Value.(*CacheEntry)
	if !entry.ExpiresAt.After(time.Now()) {
		rc.order.Remove(elem)
		delete(rc.entries, key)
		rc.misses++
		return nil, false
	}

	rc.order.MoveToFront(elem)
	rc.hits++
	return entry.Value, true
}

// Set inserts or replaces the entry for key at the most-recently-used
// position, evicting least-recently-used entries past MaxEntries.
func (rc *ResponseCache) Set(key string, value json.RawMessage, endpoint string, ttl time.Duration) {
	if !rc.Enabled() {
		return
	}
	if ttl <= 0 {
		ttl = rc.TTLFor(endpoint)
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	if elem, exists := rc.entries[key]; exists {
		rc.order.Remove(elem)
		delete(rc.entries, key)
	}

	entry := &CacheEntry{
		Key:       key,
		Value:     value,
		Endpoint:  endpoint,
		ExpiresAt: time.Now().Add(ttl),
	}
	rc.entries[key] = rc.order.PushFront(entry)

	for len(rc.entries) > rc.config.MaxEntries {
		oldest := rc.order.Back()
		if oldest == nil {
			break
		}
		rc.order.Remove(oldest)
		delete(rc.entries, oldest.Value.(*CacheEntry).Key)
	}
}

// Invalidate removes every entry whose endpoint contains pattern as a
// substring and returns the number removed.
func (rc *ResponseCache) Invalidate(pattern string) int {
	if rc == nil {
		return 0
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	removed := 0
	var next *list.Element
	for elem := rc.order.Front(); elem != nil; elem = next {
		next = elem.Next()
		entry := elem.Value.(*CacheEntry)
		if strings.Contains(entry.Endpoint, pattern) {
			rc.order.Remove(elem)
			delete(rc.entries, entry.Key)
			removed++
		}
	}
	return removed
}

// Clear empties the cache and resets hit/miss counters.
func (rc *ResponseCache) Clear() {
	if rc == nil {
		return
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.entries = make(map[string]*list.Element)
	rc.order.Init()
	rc.hits = 0
	rc.misses = 0
}

// Stats returns hit/miss counters and the hit rate (0 with no lookups).
func (rc *ResponseCache) Stats() CacheStats {
	if rc == nil {
		return CacheStats{}
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	stats := CacheStats{
		Entries: len(rc.entries),
		Hits:    rc.hits,
		Misses:  rc.misses,
	}
	if total := rc.hits + rc.misses; total > 0 {
		stats.HitRate = float64(rc.hits) / float64(total)
	}
	return stats
}

// Len returns the number of live entries, expired or not.
func (rc *ResponseCache) Len() int {
	if rc == nil {
		return 0
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.entries)
}

// TTLFor picks the TTL category for an endpoint: paper detail lookups are
// long-lived, everything else is treated as volatile.
func (rc *ResponseCache) TTLFor(endpoint string) time.Duration {
	if strings.Contains(endpoint, "/paper/") && !strings.Contains(endpoint, "/search") {
		return rc.config.PaperTTL
	}
	return rc.config.SearchTTL
}

// CacheKey derives a stable fingerprint from endpoint, query parameters
// and optional body. url.Values.Encode sorts by key, so parameter order
// never affects the fingerprint and logically identical requests map to
// the same key.
func CacheKey(endpoint string, params url.Values, body []byte) string {
	h := sha256.New()
	h.Write([]byte(endpoint))
	h.Write([]byte{0})
	h.Write([]byte(params.Encode()))
	if len(body) > 0 {
		h.Write([]byte{0})
		h.Write(body)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
