// Package cache is the explicit Redis-backed metadata cache injected into
// API collaborators. The recommendation engine never reads or writes it.
//
// Key scheme:
//
//	movie:{id}                     one movie with genres
//	similar:{id}:{limit}           similarity query result
//	movies:{page}:{per_page}:{genre_id}:{search}  paged catalogue listings
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Per-endpoint TTLs
const (
	MovieTTL     = 6 * time.Hour
	SimilarTTL   = time.Hour
	MovieListTTL = 5 * time.Minute
)

// Cache wraps a Redis client. A nil *Cache is valid and misses every
// lookup, so callers never need to guard against a disabled cache.
type Cache struct {
	rdb *redis.Client
}

// New creates a cache backed by the given Redis address
func New(addr, password string, db int) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{rdb: rdb}, nil
}

// NewFromEnv builds a cache from REDIS_ADDR / REDIS_PASSWORD / REDIS_DB.
// Returns nil (cache disabled) when REDIS_ADDR is unset or unreachable.
func NewFromEnv() *Cache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, metadata cache disabled")
		return nil
	}

	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			db = parsed
		}
	}

	c, err := New(addr, os.Getenv("REDIS_PASSWORD"), db)
	if err != nil {
		log.Printf("Metadata cache disabled: %v", err)
		return nil
	}

	log.Printf("Metadata cache connected at %s", addr)
	return c
}

// GetJSON loads the value stored under key into v, reporting whether a
// usable entry was found
func (c *Cache) GetJSON(ctx context.Context, key string, v interface{}) bool {
	if c == nil || c.rdb == nil {
		return false
	}

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}

	return json.Unmarshal(data, v) == nil
}

// SetJSON stores v under key with the given TTL, best effort
func (c *Cache) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if c == nil || c.rdb == nil {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("Cache set failed for %s: %v", key, err)
	}
}

// Invalidate removes the given keys, best effort
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.rdb == nil || len(keys) == 0 {
		return
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("Cache invalidation failed: %v", err)
	}
}

// MovieKey is the cache key for a single movie
func MovieKey(id uint) string {
	return fmt.Sprintf("movie:%d", id)
}

// SimilarKey is the cache key for a similarity query result
func SimilarKey(id uint, limit int) string {
	return fmt.Sprintf("similar:%d:%d", id, limit)
}

// MovieListKey is the cache key for a paged catalogue listing
func MovieListKey(page, perPage int, genreID uint, search string) string {
	return fmt.Sprintf("movies:%d:%d:%d:%s", page, perPage, genreID, search)
}
