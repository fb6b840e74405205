// Package rd provides a redis client behind the store KV seam
package rd

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config configures the redis client
type Config struct {
	Addr     string
	Password string
	DB       int
}

// RD wraps a go-redis client
type RD struct{ c *redis.Client }

// Open dials redis and verifies connectivity before returning
func Open(ctx context.Context, cfg Config) (*RD, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return &RD{c: c}, nil
}

// Get returns the value for key with a found flag
// a missing key is not an error
func (r *RD) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set stores val under key with an expiry, zero ttl means no expiry
func (r *RD) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.c.Set(ctx, key, val, ttl).Err()
}

// Del removes keys, missing keys are not an error
func (r *RD) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.c.Del(ctx, keys...).Err()
}

// Ping reports connectivity
func (r *RD) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

// Close releases the underlying client
func (r *RD) Close() error { return r.c.Close() }
