package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MariamKalashyan/combinations-api/internal/combinator"
)

// ErrMiss is returned when no cached combination list exists for the key.
var ErrMiss = errors.New("cache miss")

// ResultCache caches computed combination lists keyed by the request input.
// Identical requests produce identical lists, so a hit skips recomputation.
// The cache holds combinations only, never identifiers: every request is
// still recorded by the store under a fresh identifier.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a result cache with the given TTL.
func New(client *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, ttl: ttl}
}

// key canonicalizes a request: "gen:1,2,1:2".
func key(items []int, length int) string {
	parts := make([]string, len(items))
	for i, n := range items {
		parts[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("gen:%s:%d", strings.Join(parts, ","), length)
}

// Get returns the cached combination list for the request, or ErrMiss.
func (c *ResultCache) Get(ctx context.Context, items []int, length int) ([]combinator.Combination, error) {
	data, err := c.client.Get(ctx, key(items, length)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}

	var combos []combinator.Combination
	if err := json.Unmarshal(data, &combos); err != nil {
		return nil, err
	}
	return combos, nil
}

// Set stores a combination list for the request.
func (c *ResultCache) Set(ctx context.Context, items []int, length int, combos []combinator.Combination) error {
	data, err := json.Marshal(combos)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(items, length), data, c.ttl).Err()
}
