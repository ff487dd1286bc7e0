package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes and returns a Redis client, or nil when the
// cache is unreachable. The cart mirror works without it.
func NewRedisClient(redisURL string) *redis.Client {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil
	}
	return client
}

// CartCache is a best-effort read cache for the server-mirrored cart.
// The user document in Mongo stays the store of record.
type CartCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartCache(client *redis.Client, ttl time.Duration) *CartCache {
	return &CartCache{client: client, ttl: ttl}
}

type cachedCart struct {
	Items   map[string]int `json:"items"`
	Version int64          `json:"version"`
}

func (c *CartCache) key(userID string) string {
	return fmt.Sprintf("cart:user:%s", userID)
}

func (c *CartCache) Get(ctx context.Context, userID string) (map[string]int, int64, bool) {
	if c == nil || c.client == nil {
		return nil, 0, false
	}
	data, err := c.client.Get(ctx, c.key(userID)).Result()
	if err != nil {
		return nil, 0, false
	}
	var cart cachedCart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, 0, false
	}
	return cart.Items, cart.Version, true
}

func (c *CartCache) Set(ctx context.Context, userID string, items map[string]int, version int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(cachedCart{Items: items, Version: version})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(userID), data, c.ttl).Err()
}

func (c *CartCache) Delete(ctx context.Context, userID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.key(userID)).Err()
}
