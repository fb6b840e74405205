package cachekit

import (
	"context"
	"sync"
	"time"
)

// Memory is a map backed cache for tests and single process fallback
type Memory struct {
	mu   sync.RWMutex
	data map[string]memEntry
	now  func() time.Time
}

type memEntry struct {
	storedAt time.Time
	ttl      time.Duration
	payload  []byte
}

// NewMemory constructs an empty in process cache
func NewMemory() *Memory {
	return &Memory{data: make(map[string]memEntry), now: time.Now}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if e.ttl > 0 && m.now().Sub(e.storedAt) > e.ttl {
		m.mu.Lock()
		delete(m.data, key)
		m.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte{}, e.payload...), true, nil
}

func (m *Memory) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = memEntry{
		storedAt: m.now(),
		ttl:      ttl,
		payload:  append([]byte{}, val...),
	}
	return nil
}

func (m *Memory) Clear(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *Memory) Close() error { return nil }
