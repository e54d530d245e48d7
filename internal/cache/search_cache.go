package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gofun/internal/common"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "gofun:search"
	versionKey = keyPrefix + ":version"
)

// SearchCache is a cache-aside decorator over a SearchIndex. Every Index or
// Remove bumps a version counter, which retires all cached pages at once.
// Redis failures fall through to the wrapped index.
type SearchCache struct {
	inner common.SearchIndex
	rdb   redis.Cmdable
	ttl   time.Duration
}

var _ common.SearchIndex = (*SearchCache)(nil)

func NewSearchCache(inner common.SearchIndex, rdb redis.Cmdable, ttl time.Duration) *SearchCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SearchCache{inner: inner, rdb: rdb, ttl: ttl}
}

func (c *SearchCache) SearchIDs(ctx context.Context, query string, types []common.ContentType, page int) ([]int64, error) {
	version, err := c.rdb.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Printf("Search cache unavailable: %v", err)
		return c.inner.SearchIDs(ctx, query, types, page)
	}

	key := cacheKey(version, query, types, page)
	if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var ids []int64
		if err := json.Unmarshal(raw, &ids); err == nil {
			return ids, nil
		}
	}

	ids, err := c.inner.SearchIDs(ctx, query, types, page)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(ids); err == nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			log.Printf("Failed to cache search %q: %v", key, err)
		}
	}
	return ids, nil
}

func (c *SearchCache) Index(ctx context.Context, doc common.SearchDocument) error {
	if err := c.inner.Index(ctx, doc); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *SearchCache) Remove(ctx context.Context, funID int64) error {
	if err := c.inner.Remove(ctx, funID); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *SearchCache) invalidate(ctx context.Context) {
	if err := c.rdb.Incr(ctx, versionKey).Err(); err != nil {
		log.Printf("Failed to invalidate search cache: %v", err)
	}
}

// cacheKey keeps nil types (any) apart from an empty restriction (none).
func cacheKey(version int64, query string, types []common.ContentType, page int) string {
	typePart := "any"
	if types != nil {
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = t.String()
		}
		typePart = "[" + strings.Join(names, ",") + "]"
	}
	terms := strings.Join(common.NormalizeTags([]string{query}), ",")
	return fmt.Sprintf("%s:v%d:%s:p%d:%s", keyPrefix, version, typePart, page, terms)
}
