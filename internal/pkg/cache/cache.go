// Package cache provides the small key/value store used for short-lived credentials.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	pkgredis "github.com/lk2023060901/gost-search/internal/pkg/redis"
)

// ErrMiss is returned by Get when the key is absent or expired
var ErrMiss = errors.New("cache: miss")

// Store is a string cache with per-key TTL
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// Memory is an in-process Store. Entries with a zero TTL never expire.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory returns an empty in-memory store using the wall clock
func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock returns an in-memory store that reads time from now
func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

// Get returns the value stored under key
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return "", ErrMiss
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.entries, key)
		return "", ErrMiss
	}
	return entry.value, nil
}

// Set stores value under key for ttl
func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = entry
	return nil
}

// Redis adapts the shared redis client to Store
type Redis struct {
	client *pkgredis.Client
}

// NewRedis wraps client
func NewRedis(client *pkgredis.Client) *Redis {
	return &Redis{client: client}
}

// Get maps a missing key to ErrMiss
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key)
	if err != nil {
		if pkgredis.IsNil(err) {
			return "", ErrMiss
		}
		return "", err
	}
	return val, nil
}

// Set stores value with SET EX semantics
func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl)
}
