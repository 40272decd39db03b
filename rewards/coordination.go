package rewards

import (
	"context"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Coordinator is the shared coordination store: short-lived per-key mutual
// exclusion plus a write-once idempotency cache. Locks are fail-fast (no
// queuing) and self-expire after their TTL so a crashed holder can never
// deadlock a user permanently.
type Coordinator interface {
	// TryLock atomically claims key for ttl. Returns false immediately
	// when another holder has it.
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error

	// GetResult returns the cached payload for key, or nil when absent.
	GetResult(ctx context.Context, key string) ([]byte, error)
	// SetResult caches payload under key for ttl; it never overwrites an
	// existing entry.
	SetResult(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// RedisCoordinator backs the Coordinator with a shared Redis instance so
// correctness survives restarts and horizontal scaling.
type RedisCoordinator struct {
	client *redis.Client
}

func NewRedisCoordinator(client *redis.Client) *RedisCoordinator {
	return &RedisCoordinator{client: client}
}

func (c *RedisCoordinator) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, key, "1", ttl).Result()
}

func (c *RedisCoordinator) Unlock(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *RedisCoordinator) GetResult(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (c *RedisCoordinator) SetResult(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return c.client.SetNX(ctx, key, payload, ttl).Err()
}

// MemoryCoordinator is the single-process fallback used when Redis is not
// configured, and the implementation the tests run against.
type MemoryCoordinator struct {
	mu      sync.Mutex
	entries map[string]memEntry
}

type memEntry struct {
	payload   []byte
	expiresAt time.Time
}

func NewMemoryCoordinator() *MemoryCoordinator {
	return &MemoryCoordinator{entries: make(map[string]memEntry)}
}

func (c *MemoryCoordinator) TryLock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	if e, ok := c.entries[key]; ok && e.expiresAt.After(now) {
		return false, nil
	}
	c.entries[key] = memEntry{payload: []byte("1"), expiresAt: now.Add(ttl)}
	return true, nil
}

func (c *MemoryCoordinator) Unlock(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *MemoryCoordinator) GetResult(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || !e.expiresAt.After(time.Now()) {
		delete(c.entries, key)
		return nil, nil
	}
	return e.payload, nil
}

func (c *MemoryCoordinator) SetResult(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	if e, ok := c.entries[key]; ok && e.expiresAt.After(now) {
		return nil
	}
	c.entries[key] = memEntry{payload: payload, expiresAt: now.Add(ttl)}
	return nil
}
