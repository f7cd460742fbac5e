package cosmos

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cosmos-server/internal/shared/errors"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Cache keeps generated trees close at hand. A miss is reported as ok == false
// with a nil error.
type Cache interface {
	GetBodies(ctx context.Context, id uuid.UUID) (stars []StarData, ok bool, err error)
	SetBodies(ctx context.Context, id uuid.UUID, stars []StarData) error
	Delete(ctx context.Context, id uuid.UUID) error
}

func bodiesKey(id uuid.UUID) string {
	return fmt.Sprintf("cosmos:%s:bodies", id)
}

type RedisCache struct {
	client *goredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisCache(client *goredis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "cosmos_cache", "backend", "redis"),
	}
}

func (c *RedisCache) GetBodies(ctx context.Context, id uuid.UUID) ([]StarData, bool, error) {
	data, err := c.client.Get(ctx, bodiesKey(id)).Bytes()
	if stderrors.Is(err, goredis.Nil) {
		c.logger.Debug("Cache miss", "cosmos_id", id)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.WrapExternal("failed to read cached bodies", err)
	}

	var stars []StarData
	if err := json.Unmarshal(data, &stars); err != nil {
		return nil, false, errors.WrapInternal("failed to decode cached bodies", err)
	}

	c.logger.Debug("Cache hit", "cosmos_id", id, "bytes", len(data))
	return stars, true, nil
}

func (c *RedisCache) SetBodies(ctx context.Context, id uuid.UUID, stars []StarData) error {
	data, err := json.Marshal(stars)
	if err != nil {
		return errors.WrapInternal("failed to encode bodies", err)
	}

	if err := c.client.Set(ctx, bodiesKey(id), data, c.ttl).Err(); err != nil {
		return errors.WrapExternal("failed to cache bodies", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, bodiesKey(id)).Err(); err != nil {
		return errors.WrapExternal("failed to evict cached bodies", err)
	}
	return nil
}

type memoryEntry struct {
	stars     []StarData
	expiresAt time.Time
}

// MemoryCache is the in-process fallback used when Redis is disabled.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[uuid.UUID]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) GetBodies(_ context.Context, id uuid.UUID) ([]StarData, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if c.ttl > 0 && c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, id)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.stars, true, nil
}

func (c *MemoryCache) SetBodies(_ context.Context, id uuid.UUID, stars []StarData) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[id] = memoryEntry{stars: stars, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, id)
	return nil
}
