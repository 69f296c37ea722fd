package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sensesdx/portalkit/core"
)

const redisKeyPrefix = "portalkit:query:"

// Redis backs the query cache with a shared Redis instance so several
// gateway replicas see the same entries and the same staleness marks.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

var _ core.Cache = (*Redis)(nil)

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &Redis{client: client, ttl: ttl}
}

func (c *Redis) Get(key string) (*core.CacheEntry, error) {
	raw, err := c.client.Get(context.Background(), redisKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var entry core.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// poisoned entry, drop it
		_ = c.Delete(key)
		return nil, ErrNotFound
	}
	return &entry, nil
}

func (c *Redis) Set(key string, entry *core.CacheEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.client.Set(context.Background(), redisKeyPrefix+key, raw, c.ttl).Err()
}

func (c *Redis) MarkStale(prefix string) error {
	ctx := context.Background()
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		raw, err := c.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}
		var entry core.CacheEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		entry.Stale = true
		updated, err := json.Marshal(&entry)
		if err != nil {
			continue
		}
		if err := c.client.Set(ctx, iter.Val(), updated, redis.KeepTTL).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *Redis) Delete(key string) error {
	return c.client.Del(context.Background(), redisKeyPrefix+key).Err()
}

func (c *Redis) Clear() error {
	ctx := context.Background()
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
