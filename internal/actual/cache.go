package actual

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 24 * time.Hour

// Cache keeps hydrated actuals in Redis. Actuals never change after creation,
// so entries are only ever evicted by TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ActualCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(id uuid.UUID) string {
	return "actual:" + id.String()
}

// Get returns nil, nil on a miss.
func (c *Cache) Get(ctx context.Context, id uuid.UUID) (*Actual, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var a Actual
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Cache) Set(ctx context.Context, a Actual) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(a.ID), data, c.ttl).Err()
}
