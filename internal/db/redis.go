package db

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SummaryCache keeps rendered restaurant summaries for a short TTL so
// repeated reads do not re-render and re-upload the images.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSummaryCache(addr string, ttl time.Duration) *SummaryCache {
	return &SummaryCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

func (c *SummaryCache) Key(restaurantID string) string {
	return "summary:" + restaurantID
}

// Get returns the cached payload, or ok=false on a miss or any Redis error;
// the cache is best-effort and never fails a read.
func (c *SummaryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *SummaryCache) Set(ctx context.Context, key string, payload []byte) error {
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

func (c *SummaryCache) Close() error {
	return c.client.Close()
}
