package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lawyer4u/portal/internal/core/ports"
)

const keyPrefix = "browser"

// Storage keeps browser storage entries in Redis.
// Key format: browser:<browser_id>:<key>
// Every write refreshes the entry's TTL so idle browsers expire.
type Storage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStorage wraps client. A zero ttl keeps entries forever.
func NewStorage(client *redis.Client, ttl time.Duration) *Storage {
	return &Storage{client: client, ttl: ttl}
}

func (s *Storage) Scope(browserID string) ports.Storage {
	return &scope{client: s.client, ttl: s.ttl, browserID: browserID}
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Storage) Close(context.Context) error {
	return s.client.Close()
}

type scope struct {
	client    *redis.Client
	ttl       time.Duration
	browserID string
}

func (s *scope) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *scope) SetItem(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *scope) RemoveItem(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *scope) key(key string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, s.browserID, key)
}
