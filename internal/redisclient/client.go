package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewClient creates a new Redis client for favorites slots stored under prefix
func NewClient(addr, password string, db int, prefix string, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewWithRedis(rdb, prefix, ttl), nil
}

// NewWithRedis wraps an existing redis client
func NewWithRedis(rdb *redis.Client, prefix string, ttl time.Duration) *Client {
	return &Client{rdb: rdb, prefix: prefix, ttl: ttl}
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks the connection
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// SlotKey returns the redis key of a named favorites slot
func (c *Client) SlotKey(slot string) string {
	if c.prefix == "" {
		return slot
	}
	return fmt.Sprintf("%s:%s", c.prefix, slot)
}

// Load reads the blob stored in slot. A missing key returns nil, nil.
func (c *Client) Load(ctx context.Context, slot string) ([]byte, error) {
	blob, err := c.rdb.Get(ctx, c.SlotKey(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot %s: %w", slot, err)
	}
	return blob, nil
}

// Save overwrites the blob stored in slot, refreshing its TTL when one is configured
func (c *Client) Save(ctx context.Context, slot string, blob []byte) error {
	if err := c.rdb.Set(ctx, c.SlotKey(slot), blob, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set slot %s: %w", slot, err)
	}
	return nil
}

// Delete removes a slot
func (c *Client) Delete(ctx context.Context, slot string) error {
	return c.rdb.Del(ctx, c.SlotKey(slot)).Err()
}
