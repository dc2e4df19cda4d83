package vapor

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

const defaultCacheTTL = 10 * time.Minute

// responseCache keeps read-mostly responses between screen visits.
type responseCache struct {
	store *cache.Cache
}

func newResponseCache(ttl time.Duration) *responseCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &responseCache{store: cache.New(ttl, 2*ttl)}
}

func detailsKey(appID int) string       { return fmt.Sprintf("details:%d", appID) }
func achievementsKey(gameID int) string { return fmt.Sprintf("achievements:%d", gameID) }

func cached[T any](c *responseCache, key string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	v, ok := c.store.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

func (c *responseCache) put(key string, v any) {
	if c != nil {
		c.store.SetDefault(key, v)
	}
}

func (c *responseCache) drop(key string) {
	if c != nil {
		c.store.Delete(key)
	}
}

// Forget drops every cached response, e.g. after logout.
func (c *Client) Forget() {
	c.cache.store.Flush()
}
