// Package cache stores computed payoff plans keyed by an input hash.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrMiss = errors.New("cache miss")

// DefaultMaxEntries bounds a Memory cache; the oldest entries are evicted
// once it is full.
const DefaultMaxEntries = 1024

// Memory is an in-process cache with per-entry expiry. Expired entries are
// swept on every Set.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]entry
	maxEntries int
	now        func() time.Time
}

type entry struct {
	value     []byte
	storedAt  time.Time
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

func NewMemory() *Memory {
	return &Memory{
		entries:    make(map[string]entry),
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string, dst any) error {
	m.mu.Lock()
	e, ok := m.entries[key]

	if ok && e.expired(m.now()) {
		delete(m.entries, key)

		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return ErrMiss
	}

	return json.Unmarshal(e.value, dst)
}

func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding cache value: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	e := entry{value: b, storedAt: now}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}

	m.sweep(now)

	if _, exists := m.entries[key]; !exists {
		for len(m.entries) >= m.maxEntries {
			m.evictOldest()
		}
	}

	m.entries[key] = e

	return nil
}

// Len reports how many entries are held, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}

func (m *Memory) sweep(now time.Time) {
	for k, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, k)
		}
	}
}

func (m *Memory) evictOldest() {
	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)

	for k, e := range m.entries {
		if !found || e.storedAt.Before(oldest) {
			oldestKey, oldest, found = k, e.storedAt, true
		}
	}

	if found {
		delete(m.entries, oldestKey)
	}
}

// Redis stores entries as JSON strings under a key prefix.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	return &Redis{client: client, prefix: "summit:plan:"}
}

// Ping tests the connection.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Get(ctx context.Context, key string, dst any) error {
	b, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}

	if err != nil {
		return fmt.Errorf("redis get: %w", err)
	}

	return json.Unmarshal(b, dst)
}

func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding cache value: %w", err)
	}

	if err := r.client.Set(ctx, r.prefix+key, b, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

type Store interface {
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Open connects to redis when addr is set and falls back to an in-memory
// store otherwise. The returned close function is never nil.
func Open(ctx context.Context, addr string) (Store, func() error, error) {
	if addr == "" {
		return NewMemory(), func() error { return nil }, nil
	}

	r := NewRedis(addr)
	if err := r.Ping(ctx); err != nil {
		_ = r.Close()
		return nil, nil, err
	}

	return r, r.Close, nil
}
