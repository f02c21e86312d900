package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"autopost-dashboard/domain/repository"
	"autopost-dashboard/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, addr, username, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	logger.GetLogger().WithField("addr", addr).Info("Redis client initialized successfully.")
	return client, nil
}

// RedisKeyValue stores dashboard client state in Redis under a key prefix.
type RedisKeyValue struct {
	client *redis.Client
	prefix string
}

func NewRedisKeyValue(client *redis.Client, prefix string) repository.IKeyValue {
	return &RedisKeyValue{client: client, prefix: prefix}
}

func (r *RedisKeyValue) key(k string) string { return r.prefix + k }

func (r *RedisKeyValue) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisKeyValue) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(key), value, ttl).Err()
}

func (r *RedisKeyValue) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, r.key(key), value, ttl).Result()
}

func (r *RedisKeyValue) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, r.key(key))
	if ttl > 0 {
		pipe.ExpireNX(ctx, r.key(key), ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (r *RedisKeyValue) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryKeyValue is a process-local IKeyValue used when Redis is not configured.
type MemoryKeyValue struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryKeyValue() *MemoryKeyValue {
	return &MemoryKeyValue{items: map[string]memoryEntry{}, now: time.Now}
}

// WithClock replaces the clock used for expiry.
func (m *MemoryKeyValue) WithClock(now func() time.Time) *MemoryKeyValue {
	m.now = now
	return m
}

// lookup must be called with mu held.
func (m *MemoryKeyValue) lookup(key string) (memoryEntry, bool) {
	e, ok := m.items[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.items, key)
		return memoryEntry{}, false
	}
	return e, true
}

func (m *MemoryKeyValue) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(ttl)
}

func (m *MemoryKeyValue) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.lookup(key)
	return e.value, ok, nil
}

func (m *MemoryKeyValue) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = memoryEntry{value: value, expiresAt: m.expiry(ttl)}
	return nil
}

func (m *MemoryKeyValue) SetIfAbsent(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lookup(key); ok {
		return false, nil
	}
	m.items[key] = memoryEntry{value: value, expiresAt: m.expiry(ttl)}
	return true, nil
}

func (m *MemoryKeyValue) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.lookup(key)
	var n int64
	if ok {
		parsed, err := strconv.ParseInt(e.value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("incr %s: value is not an integer", key)
		}
		n = parsed
	} else {
		e.expiresAt = m.expiry(ttl)
	}
	n++
	e.value = strconv.FormatInt(n, 10)
	m.items[key] = e
	return n, nil
}

func (m *MemoryKeyValue) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
