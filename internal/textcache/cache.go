// Package textcache memoizes extracted document text in Redis so repeated
// chat turns do not re-parse the same files.
package textcache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/preparly/taxassist/internal/rag"
)

// Cache decorates a text extractor with a Redis lookaside cache. Redis being
// down degrades to plain extraction; it never surfaces as a failure.
type Cache struct {
	client *redis.Client
	next   rag.TextExtractor
	ttl    time.Duration
}

// New wraps next with a cache on client. A nil client disables caching.
func New(client *redis.Client, next rag.TextExtractor, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{client: client, next: next, ttl: ttl}
}

var _ rag.TextExtractor = (*Cache)(nil)

var logger = log.New(log.Writer(), "[CACHE] ", log.LstdFlags)

// key includes the last-modified stamp so re-uploads invalidate naturally.
func key(src rag.Source) string {
	return fmt.Sprintf("doctext:%s:%d", src.ID, src.LastModified.Unix())
}

func (c *Cache) Extract(src rag.Source) string {
	if c.client == nil || src.ID == "" {
		return c.next.Extract(src)
	}
	ctx := context.Background()
	k := key(src)

	if val, err := c.client.Get(ctx, k).Result(); err == nil {
		return val
	} else if err != redis.Nil {
		logger.Printf("get %s: %v", k, err)
		return c.next.Extract(src)
	}

	text := c.next.Extract(src)
	// Placeholders are not cached: a transient blob-store failure should
	// not pin an error text until the TTL runs out.
	if !rag.IsPlaceholder(text) {
		if err := c.client.Set(ctx, k, text, c.ttl).Err(); err != nil {
			logger.Printf("set %s: %v", k, err)
		}
	}
	return text
}
