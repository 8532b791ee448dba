package cache

import (
	"context"
	"encoding/json"
	"time"

	dom "github.com/serh11pashkov/resumebuilder/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyGallery = "resume:gallery"

// GalleryCache caches the public gallery listing in Redis.
type GalleryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewGalleryCache returns a new GalleryCache.
func NewGalleryCache(rdb *redis.Client, ttl time.Duration) *GalleryCache {
	return &GalleryCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached gallery. The bool distinguishes a cache miss from
// a cached empty listing, which is a valid hit.
func (c *GalleryCache) Get(ctx context.Context) ([]dom.Resume, bool, error) {
	b, err := c.rdb.Get(ctx, keyGallery).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var list []dom.Resume
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, false, err
	}
	return list, true, nil
}

// Set stores the gallery listing in cache.
func (c *GalleryCache) Set(ctx context.Context, list []dom.Resume) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyGallery, b, c.ttl).Err()
}

// Invalidate removes the cached gallery (called on any resume write).
func (c *GalleryCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, keyGallery).Err()
}
