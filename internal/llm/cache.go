package llm

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	expirable "github.com/hashicorp/golang-lru/v2/expirable"
)

// ResponseCache caches raw provider responses keyed by a fingerprint of
// (prompt, provider, model, temperature), per spec.md §3's "LLM response
// cache entry". Backed by github.com/hashicorp/golang-lru/v2/expirable — the
// same LRU family the NLP preprocessor's per-sentence cache uses, here with
// the TTL eviction the cache entry's lifecycle additionally requires.
type ResponseCache struct {
	cache *expirable.LRU[string, string]
}

// NewResponseCache builds a TTL+size-bounded cache. Defaults (3600s /
// 10,000 entries) come from spec.md §4.2.
func NewResponseCache(ttl time.Duration, maxSize int) *ResponseCache {
	if ttl <= 0 {
		ttl = 3600 * time.Second
	}
	if maxSize <= 0 {
		maxSize = 10000
	}
	return &ResponseCache{cache: expirable.NewLRU[string, string](maxSize, nil, ttl)}
}

// Fingerprint computes the 128-bit cache key for a request. A plain MD5 sum
// is used purely as a deterministic content digest, not for any security
// property — equivalent in spirit to the teacher's use of cheap hashing for
// non-cryptographic cache keys, and standard-library here because no pack
// dependency offers anything crypto/md5 doesn't already provide for this.
func Fingerprint(prompt, provider, model string, temperature float64) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s\x00%s\x00%s\x00%.4f", prompt, provider, model, temperature)))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached response, if any.
func (c *ResponseCache) Get(key string) (string, bool) {
	if c == nil || c.cache == nil {
		return "", false
	}
	return c.cache.Get(key)
}

// Set stores a response under key.
func (c *ResponseCache) Set(key, value string) {
	if c == nil || c.cache == nil {
		return
	}
	c.cache.Add(key, value)
}

// Len reports the number of cached entries (used by the `stats` command).
func (c *ResponseCache) Len() int {
	if c == nil || c.cache == nil {
		return 0
	}
	return c.cache.Len()
}
