package cachekit

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const boltBucket = "cache"

// Bolt keeps cache entries inside a local bbolt file for hosts without redis.
// bbolt has no native expiry, so each value carries its stored_at and ttl and
// Get purges entries that have aged out
type Bolt struct {
	db  *bolt.DB
	now func() time.Time
}

type boltEntry struct {
	StoredAt time.Time `json:"stored_at"`
	TTLNanos int64     `json:"ttl_ns"`
	Payload  []byte    `json:"payload"`
}

// NewBolt opens (or creates) the cache file at path
func NewBolt(path string) (*Bolt, error) {
	if path == "" {
		return nil, errors.New("cachekit: bolt path is required")
	}

	cleaned := filepath.Clean(path)
	if dir := filepath.Dir(cleaned); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := bolt.Open(cleaned, 0o600, nil)
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Bolt{db: db, now: time.Now}, nil
}

func (b *Bolt) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		payload []byte
		found   bool
		expired bool
	)

	err := b.db.View(func(tx *bolt.Tx) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		raw := tx.Bucket([]byte(boltBucket)).Get([]byte(key))
		if raw == nil {
			return nil
		}

		var e boltEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			// unreadable entry, treat as expired so it gets purged
			expired = true
			return nil
		}
		if e.TTLNanos > 0 && b.now().Sub(e.StoredAt) > time.Duration(e.TTLNanos) {
			expired = true
			return nil
		}

		payload = append([]byte{}, e.Payload...)
		found = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if expired {
		if err := b.Clear(ctx, key); err != nil {
			return nil, false, err
		}
	}
	return payload, found, nil
}

func (b *Bolt) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	raw, err := json.Marshal(boltEntry{
		StoredAt: b.now().UTC(),
		TTLNanos: int64(ttl),
		Payload:  val,
	})
	if err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		return tx.Bucket([]byte(boltBucket)).Put([]byte(key), raw)
	})
}

func (b *Bolt) Clear(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		bkt := tx.Bucket([]byte(boltBucket))
		for _, key := range keys {
			if err := bkt.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *Bolt) Close() error { return b.db.Close() }
