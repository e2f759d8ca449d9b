package trust

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 10 * time.Minute

// Cache keeps computed trust profiles in Redis so repeated scoring runs do
// not re-read the members table per candidate. A cache failure is treated
// as a miss, never as an error.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func cacheKey(counterpartyID int) string {
	return fmt.Sprintf("trust:tier:%d", counterpartyID)
}

func (c *Cache) Get(ctx context.Context, counterpartyID int) (Profile, bool) {
	if c == nil || c.rdb == nil {
		return Profile{}, false
	}
	raw, err := c.rdb.Get(ctx, cacheKey(counterpartyID)).Bytes()
	if err != nil {
		return Profile{}, false
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return Profile{}, false
	}
	return p, true
}

func (c *Cache) Set(ctx context.Context, counterpartyID int, p Profile) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, cacheKey(counterpartyID), raw, c.ttl)
}

// Invalidate drops the cached profile after a material trust change so the
// next rescan sees the fresh tier.
func (c *Cache) Invalidate(ctx context.Context, counterpartyID int) {
	if c == nil || c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, cacheKey(counterpartyID))
}
