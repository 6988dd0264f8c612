// Package redis implements browser storage on Redis.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// Config selects the Redis server holding browser storage.
type Config struct {
	Addr     string
	Password string
	DB       int
	// Timeout bounds dialing and every command. Defaults to 5s.
	Timeout time.Duration
	// TTL is the idle expiry of a browser's entries; zero keeps them.
	TTL time.Duration
}

// Open dials Redis, checks it answers and returns the browser storage on top
// of the connection.
func Open(ctx context.Context, cfg Config) (*Storage, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: browser storage at %s unreachable: %w", cfg.Addr, err)
	}

	return NewStorage(client, cfg.TTL), nil
}
