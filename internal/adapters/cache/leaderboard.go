// Package cache provides an optional Redis read cache for the leaderboard.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/timetrial/timetrial/internal/domain/model"
)

// Default cache configuration constants.
const (
	defaultKey = "timetrial:leaderboard"
	defaultTTL = 5 * time.Second
)

// Option applies a configuration option to the Leaderboard cache.
type Option func(*Leaderboard)

// WithKey sets the Redis key the leaderboard is stored under.
func WithKey(key string) Option {
	return func(c *Leaderboard) {
		if key != "" {
			c.key = key
		}
	}
}

// WithTTL bounds how long a cached leaderboard may be served.
func WithTTL(ttl time.Duration) Option {
	return func(c *Leaderboard) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// Leaderboard caches the ranked leaderboard as a JSON blob with a TTL.
// Submissions invalidate it, so a reader in the same process always observes
// its own write; across processes the TTL bounds staleness.
type Leaderboard struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewLeaderboard creates a leaderboard cache on an existing Redis client.
func NewLeaderboard(client *redis.Client, opts ...Option) *Leaderboard {
	c := &Leaderboard{
		client: client,
		key:    defaultKey,
		ttl:    defaultTTL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get returns the cached entries. A miss is (nil, false, nil).
func (c *Leaderboard) Get(ctx context.Context) ([]model.RankedEntry, bool, error) {
	data, err := c.client.Get(ctx, c.key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	entries, err := decodeEntries([]byte(data))
	if err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

// Set stores the entries under the configured TTL.
func (c *Leaderboard) Set(ctx context.Context, entries []model.RankedEntry) error {
	data, err := encodeEntries(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, data, c.ttl).Err()
}

// Invalidate drops the cached leaderboard.
func (c *Leaderboard) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}

func encodeEntries(entries []model.RankedEntry) ([]byte, error) {
	return json.Marshal(entries)
}

func decodeEntries(data []byte) ([]model.RankedEntry, error) {
	var entries []model.RankedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
