package invitations

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/roemah-nenek/undangan/internal/models"
)

// versionTTL bounds how long an invalidation version outlives its slug.
const versionTTL = 24 * time.Hour

// Cache is a read-through cache for public slug lookups.
//
// Every invalidation bumps the slug's version. A fill reads the version before loading
// from the store and passes it to Set, which drops the write if the slug was
// invalidated in between, so a fill never reinstates a row an update already replaced.
type Cache interface {
	Get(ctx context.Context, slug string) (*models.Invitation, bool, error)
	Version(ctx context.Context, slug string) (int64, error)
	Set(ctx context.Context, inv *models.Invitation, version int64) error
	Invalidate(ctx context.Context, slugs ...string) error
}

// CacheKey is the Redis key holding the cached invitation for slug.
func CacheKey(slug string) string {
	return "invitation:slug:" + slug
}

// VersionKey is the Redis key counting invalidations of slug.
func VersionKey(slug string) string {
	return CacheKey(slug) + ":version"
}

// RedisCache stores invitations as JSON strings with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a slug cache. A zero ttl keeps entries until invalidated.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached invitation, reporting false on a miss.
func (c *RedisCache) Get(ctx context.Context, slug string) (*models.Invitation, bool, error) {
	raw, err := c.client.Get(ctx, CacheKey(slug)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var inv models.Invitation
	if err := json.Unmarshal(raw, &inv); err != nil {
		return nil, false, err
	}
	return &inv, true, nil
}

// Version returns the slug's invalidation count; a slug never invalidated is at 0.
func (c *RedisCache) Version(ctx context.Context, slug string) (int64, error) {
	v, err := c.client.Get(ctx, VersionKey(slug)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Set caches inv under its slug unless the slug's version moved past version.
func (c *RedisCache) Set(ctx context.Context, inv *models.Invitation, version int64) error {
	raw, err := json.Marshal(inv)
	if err != nil {
		return err
	}
	versionKey := VersionKey(inv.Slug)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, CacheKey(inv.Slug), raw, c.ttl)
			return nil
		})
		return err
	}, versionKey)
	if errors.Is(err, redis.TxFailedErr) {
		// Invalidated while we were writing.
		return nil
	}
	return err
}

// Invalidate drops the given slugs and bumps their versions.
func (c *RedisCache) Invalidate(ctx context.Context, slugs ...string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, s := range slugs {
			if s == "" {
				continue
			}
			pipe.Incr(ctx, VersionKey(s))
			pipe.Expire(ctx, VersionKey(s), versionTTL)
			pipe.Del(ctx, CacheKey(s))
		}
		return nil
	})
	return err
}
