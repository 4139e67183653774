package redisinfra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-files-api/internal/config"
	"github.com/go-files-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Client is the ephemeral key-value store used for session tokens.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a Redis-backed client. The connection is lazy; use
// IsAlive to check it.
func NewClient(cfg *config.Config) *Client {
	return &Client{rdb: redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})}
}

// Get returns the value stored at key, or domain.ErrNotFound when the key is
// missing or expired.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	v, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("key %q: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return v, nil
}

// Set stores value at key with the given expiry.
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *Client) Del(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// IsAlive reports whether the server answers a PING.
func (c *Client) IsAlive(ctx context.Context) bool {
	return c.rdb.Ping(ctx).Err() == nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
