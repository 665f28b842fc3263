package userdata

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Defaults applied by [NewCachingProvider] for zero-valued [CacheConfig]
// fields.
const (
	DefaultCacheTTL        = 5 * time.Minute
	DefaultCacheMaxEntries = 10_000
)

// CacheConfig defines a public type used by gateAuth APIs.
//
// CacheConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CacheConfig struct {
	TTL        time.Duration
	MaxEntries int
}

// CachingProvider defines a public type used by gateAuth APIs.
//
// CachingProvider memoizes recent successful verifications so repeated
// logins with identical credentials skip a slow wrapped backend. Only
// successes are ever inserted; a failing submission always re-attempts the
// wrapped backend. On a hit the original submission's fields are returned
// without consulting the backend.
type CachingProvider struct {
	inner      Provider
	cache      *gocache.Cache
	maxEntries int
}

// NewCachingProvider wraps inner with a TTL-bounded success cache.
func NewCachingProvider(inner Provider, cfg CacheConfig) *CachingProvider {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCacheTTL
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultCacheMaxEntries
	}
	return &CachingProvider{
		inner:      inner,
		cache:      gocache.New(cfg.TTL, cfg.TTL),
		maxEntries: cfg.MaxEntries,
	}
}

// Verify describes the verify operation and its observable behavior.
//
// Verify returns the submitted fields directly when the exact field set was
// verified successfully within the TTL; otherwise it invokes the wrapped
// backend and, on success only, records the submission.
func (c *CachingProvider) Verify(fields map[string]string) (map[string]string, error) {
	key := cacheKey(fields)
	if _, ok := c.cache.Get(key); ok {
		return copyAttributes(fields), nil
	}

	attrs, err := c.inner.Verify(fields)
	if err != nil {
		return nil, err
	}

	// go-cache has no LRU; a full flush at the cap still respects the
	// configured bound, trading hit rate for simplicity.
	if c.cache.ItemCount() >= c.maxEntries {
		c.cache.Flush()
	}
	c.cache.SetDefault(key, struct{}{})
	return attrs, nil
}

// Len returns the number of cached verifications, expired entries included.
func (c *CachingProvider) Len() int {
	return c.cache.ItemCount()
}

// cacheKey digests the full submitted field set, order-independent and
// duplicate-free by construction of the map.
func cacheKey(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte(0)
		b.WriteString(fields[k])
		b.WriteByte(0)
	}
	digest := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(digest[:])
}
