package tagcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/nhath/foodlog/internal/logging"
	"github.com/nhath/foodlog/internal/tags"
)

// keyPattern matches every key produced by tags.CacheKey.
const keyPattern = "tags:*"

// Redis stores lookups as JSON strings with an expiry.
// All methods are safe for concurrent use.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to Redis and verifies connectivity with a PING.
func NewRedis(ctx context.Context, cfg Config) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}, nil
}

// Get misses on any Redis or decoding error.
func (r *Redis) Get(ctx context.Context, key string) ([]tags.Tag, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logging.Warn("redis get failed", "key", key, "error", err)
		return nil, false
	}

	var out []tags.Tag
	if err := json.Unmarshal(data, &out); err != nil {
		logging.Warn("redis value corrupt", "key", key, "error", err)
		return nil, false
	}
	return out, true
}

func (r *Redis) Set(ctx context.Context, key string, t []tags.Tag) {
	if t == nil {
		t = []tags.Tag{}
	}
	data, err := json.Marshal(t)
	if err != nil {
		logging.Warn("redis encode failed", "key", key, "error", err)
		return
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		logging.Warn("redis set failed", "key", key, "error", err)
	}
}

// Clear deletes every cached lookup, leaving other keys alone.
func (r *Redis) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, keyPattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan tag keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete tag keys: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
