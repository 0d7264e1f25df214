package redis

import (
	"context"
	"errors"
	"time"

	"todo-api/domain/models"
	"todo-api/domain/ports"
	"todo-api/pkg/logger"
)

const todoListCacheKey = "todos:list"

// TodoListCache caches the full, already ordered List result.
type TodoListCache struct {
	client *Client
	ttl    time.Duration
}

func NewTodoListCache(client *Client, ttl time.Duration) *TodoListCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &TodoListCache{client: client, ttl: ttl}
}

// errLoad marks failures that came from load, not from Redis
type errLoad struct{ err error }

func (e errLoad) Error() string { return e.err.Error() }
func (e errLoad) Unwrap() error { return e.err }

// GetOrLoad falls back to load when Redis misbehaves; only load's own error
// reaches the caller.
func (c *TodoListCache) GetOrLoad(ctx context.Context, load func() ([]*models.Todo, error)) ([]*models.Todo, error) {
	var todos []*models.Todo
	err := c.client.GetOrSet(ctx, todoListCacheKey, &todos, c.ttl, func() (interface{}, error) {
		loaded, err := load()
		if err != nil {
			return nil, errLoad{err}
		}
		logger.DebugContext(ctx, "Todo list fetched from store (cache miss)", "count", len(loaded))
		return loaded, nil
	})
	if err == nil {
		if todos == nil {
			todos = []*models.Todo{}
		}
		return todos, nil
	}

	var le errLoad
	if errors.As(err, &le) {
		return nil, le.err
	}

	logger.WarnContext(ctx, "Todo list cache unavailable, reading store", "error", err)
	return load()
}

func (c *TodoListCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, todoListCacheKey); err != nil {
		logger.WarnContext(ctx, "Failed to invalidate todo list cache", "error", err)
		return
	}
	logger.DebugContext(ctx, "Todo list cache invalidated")
}

var _ ports.TodoListCachePort = (*TodoListCache)(nil)
