package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"taskboard-api/domain"
)

const boardCacheKey = "board:tasks"

type backend interface {
	Create(ctx context.Context, fields domain.Fields) (domain.Task, error)
	FetchTasks(ctx context.Context) ([]domain.Task, error)
	FetchTask(ctx context.Context, id string) (domain.Task, bool, error)
	Update(ctx context.Context, id string, patch domain.Patch) (domain.Task, bool, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Task, bool, error)
}

// Cache wraps a store with Redis-backed caching of the board list. The list
// is the hot path for every board render; single-task reads pass through.
// Cache failures degrade to the backing store, never to the caller.
type Cache struct {
	base  backend
	redis *redis.Client
	ttl   time.Duration
}

// NewCache creates a caching store wrapper using the provided Redis client
// and TTL.
func NewCache(base backend, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("storage.NewCache: base storage is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{base: base, redis: client, ttl: ttl}
}

func (c *Cache) FetchTasks(ctx context.Context) ([]domain.Task, error) {
	if tasks, ok := c.loadFromCache(ctx); ok {
		return tasks, nil
	}

	tasks, err := c.base.FetchTasks(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, tasks)
	return tasks, nil
}

func (c *Cache) FetchTask(ctx context.Context, id string) (domain.Task, bool, error) {
	return c.base.FetchTask(ctx, id)
}

func (c *Cache) Create(ctx context.Context, fields domain.Fields) (domain.Task, error) {
	task, err := c.base.Create(ctx, fields)
	if err != nil {
		return domain.Task{}, err
	}
	c.evict(ctx)
	return task, nil
}

func (c *Cache) Update(ctx context.Context, id string, patch domain.Patch) (domain.Task, bool, error) {
	task, ok, err := c.base.Update(ctx, id, patch)
	if err != nil || !ok {
		return task, ok, err
	}
	c.evict(ctx)
	return task, true, nil
}

func (c *Cache) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Task, bool, error) {
	task, ok, err := c.base.UpdateStatus(ctx, id, status)
	if err != nil || !ok {
		return task, ok, err
	}
	c.evict(ctx)
	return task, true, nil
}

func (c *Cache) loadFromCache(ctx context.Context) ([]domain.Task, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, boardCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the backing storage without failing.
			_ = c.redis.Del(ctx, boardCacheKey).Err()
		}
		return nil, false
	}
	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		_ = c.redis.Del(ctx, boardCacheKey).Err()
		return nil, false
	}
	return tasks, true
}

func (c *Cache) store(ctx context.Context, tasks []domain.Task) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, boardCacheKey, data, c.ttl).Err()
}

func (c *Cache) evict(ctx context.Context) {
	if c.redis == nil {
		return
	}
	_ = c.redis.Del(ctx, boardCacheKey).Err()
}
