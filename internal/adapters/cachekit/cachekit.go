// Package cachekit provides the byte cache the read paths inject: keyed
// get/set/clear with a per entry TTL. Backends cover redis (shared hosts),
// a local bbolt file (single host), and an in process map (tests, fallback)
package cachekit

import (
	"context"
	"strings"
	"time"
)

// Cache is a keyed byte store with expiry
// Get reports found=false for missing or expired entries rather than an error
type Cache interface {
	Get(ctx context.Context, key string) (val []byte, found bool, err error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Clear(ctx context.Context, keys ...string) error
	Close() error
}

// Key builds the canonical composite cache key for a repository artifact,
// eg Key("solana-labs", "solana-program-library", "code")
func Key(owner, repo, kind string) string {
	return strings.ToLower(owner + "/" + repo + "/" + kind)
}
