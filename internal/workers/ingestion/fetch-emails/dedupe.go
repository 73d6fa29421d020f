// internal/workers/ingestion/fetch-emails/dedupe.go
package fetchemails

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper decides whether a message id has been seen before.
// MarkSeen returns true for first sightings.
type Deduper interface {
	MarkSeen(ctx context.Context, messageID string) (bool, error)
}

// RedisDeduper marks message ids in Redis with SETNX so concurrent
// workers agree on which of them saw a message first.
type RedisDeduper struct {
	client    redis.Cmdable
	keyPrefix string
	ttl       time.Duration
}

func NewRedisDeduper(client redis.Cmdable, keyPrefix string, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (d *RedisDeduper) MarkSeen(ctx context.Context, messageID string) (bool, error) {
	return d.client.SetNX(ctx, d.keyPrefix+messageID, 1, d.ttl).Result()
}
