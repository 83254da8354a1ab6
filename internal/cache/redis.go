package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a ChoiceCache over Redis, for deployments where the bot
// restarts often enough that losing pending buttons is annoying. TTL is
// enforced by key expiry.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ChoiceCache = (*RedisCache)(nil)

// NewRedisCache connects to the given address.
func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Ping tests the connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func key(playerID string) string {
	return "choices:" + playerID
}

func (c *RedisCache) Put(ctx context.Context, playerID string, set ChoiceSet) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal choice set: %w", err)
	}
	if err := c.client.Set(ctx, key(playerID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store choice set: %w", err)
	}
	return nil
}

func (c *RedisCache) Get(ctx context.Context, playerID string) (*ChoiceSet, error) {
	data, err := c.client.Get(ctx, key(playerID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load choice set: %w", err)
	}
	var set ChoiceSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to unmarshal choice set: %w", err)
	}
	return &set, nil
}

func (c *RedisCache) Delete(ctx context.Context, playerID string) error {
	if err := c.client.Del(ctx, key(playerID)).Err(); err != nil {
		return fmt.Errorf("failed to delete choice set: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
