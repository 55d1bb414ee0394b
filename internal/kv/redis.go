package kv

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis backs the synced partition. Keys are namespaced so the same Redis
// instance can also serve the rate limiter.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to Redis using a URL (redis://host:port/db).
func NewRedis(redisURL, prefix string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Redis{client: client, prefix: prefix}, nil
}

func (r *Redis) key(k string) string {
	return r.prefix + ":" + k
}

// Get retrieves a value by key
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return value, nil
}

// Set stores a value, last writer wins
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}
	return nil
}

// Delete removes a key; deleting a missing key is not an error
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// Keys lists every key in this partition, with the namespace prefix stripped
func (r *Redis) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.key("*"), 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val()[len(r.prefix)+1:])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan keys: %w", err)
	}
	return keys, nil
}

// Ping verifies the Redis connection
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Client exposes the underlying client for the rate limiter store
func (r *Redis) Client() *redis.Client {
	return r.client
}

// Close closes the connection
func (r *Redis) Close() error {
	return r.client.Close()
}

var (
	_ KV     = (*Redis)(nil)
	_ Pinger = (*Redis)(nil)
)
