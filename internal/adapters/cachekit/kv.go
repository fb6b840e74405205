package cachekit

import (
	"context"
	"time"

	"progdex/internal/platform/store"
)

// KV adapts the store's keyed byte seam (redis in production) to Cache
// expiry rides on the backend's native TTL so Get needs no bookkeeping
type KV struct {
	kv     store.KV
	prefix string
}

// NewKV wraps kv under an optional key prefix so cache entries share a
// redis database with other tenants of the seam without colliding
func NewKV(kv store.KV, prefix string) *KV {
	return &KV{kv: kv, prefix: prefix}
}

func (k *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return k.kv.Get(ctx, k.prefix+key)
}

func (k *KV) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return k.kv.Set(ctx, k.prefix+key, val, ttl)
}

func (k *KV) Clear(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = k.prefix + key
	}
	return k.kv.Del(ctx, full...)
}

// Close is a no op, the store owns the underlying connection
func (k *KV) Close() error { return nil }
