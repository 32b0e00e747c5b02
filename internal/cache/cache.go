// Package cache provides a Redis-backed read-through cache for converted
// queries, keyed by a hash of (rule text, target, options). The core
// transpile is pure and referentially transparent, so a cache hit never
// goes stale as long as the key captures every input that affects the
// output. The client wrapper pings Redis at construction time and
// prefixes every key it reads or writes.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Config configures Redis access for the query cache.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// Cache wraps a Redis client for get-or-compute query caching.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New constructs a Redis-backed cache and verifies connectivity.
func New(cfg Config) (*Cache, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = "127.0.0.1:6379"
	}
	if strings.TrimSpace(cfg.Prefix) == "" {
		cfg.Prefix = "sigmac:query"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis query cache: %w", err)
	}

	return &Cache{client: client, prefix: strings.TrimSpace(cfg.Prefix), ttl: cfg.TTL}, nil
}

// Key derives a stable cache key from the rule text, target, and options.
// The options value must be comparable via JSON encoding (map/slice/struct
// of primitives), which every backend.Options field is.
func Key(ruleText []byte, target string, options interface{}) string {
	h := sha256.New()
	h.Write(ruleText)
	h.Write([]byte{0})
	h.Write([]byte(strings.ToLower(target)))
	h.Write([]byte{0})
	if optsJSON, err := json.Marshal(options); err == nil {
		h.Write(optsJSON)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached query for key, if present.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, c.prefix+":"+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores query under key with the configured TTL.
func (c *Cache) Set(ctx context.Context, key, query string) error {
	return c.client.Set(ctx, c.prefix+":"+key, query, c.ttl).Err()
}
