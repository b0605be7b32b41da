// Package redis implements curio's session cache on a Redis (or
// Dragonfly) instance, for deployments where multiple API replicas share
// one session cache.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmonteiro/curio"
)

const defaultKeyPrefix = "curio:session:"

type Config struct {
	// TTL bounds how long a cached session may be served without a trip
	// to authoritative storage.
	TTL time.Duration

	// KeyPrefix namespaces the cache keys. Defaults to "curio:session:".
	KeyPrefix string
}

// Adapter implements curio.Cache over a go-redis client.
type Adapter struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

var _ curio.Cache = (*Adapter)(nil)

func New(client *redis.Client, config Config) *Adapter {
	prefix := config.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	ttl := config.TTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &Adapter{client: client, ttl: ttl, prefix: prefix}
}

func (a *Adapter) Get(tokenHash string) (*curio.Session, error) {
	payload, err := a.client.Get(context.Background(), a.prefix+tokenHash).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, curio.ErrCacheNotFound
		}
		return nil, err
	}

	session := &curio.Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		// A corrupt entry is treated as a miss; storage stays authoritative.
		_ = a.Delete(tokenHash)
		return nil, curio.ErrCacheNotFound
	}
	return session, nil
}

func (a *Adapter) Set(tokenHash string, session *curio.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	ttl := a.ttl
	if remaining := time.Until(session.ExpiresAt); remaining > 0 && remaining < ttl {
		ttl = remaining
	}
	return a.client.Set(context.Background(), a.prefix+tokenHash, payload, ttl).Err()
}

func (a *Adapter) Delete(tokenHash string) error {
	return a.client.Del(context.Background(), a.prefix+tokenHash).Err()
}

func (a *Adapter) Clear() error {
	ctx := context.Background()

	var cursor uint64
	for {
		keys, next, err := a.client.Scan(ctx, cursor, a.prefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := a.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
