package ports

import (
	"context"

	"todo-api/domain/models"
)

// TodoEventPublisherPort - change notifications after successful mutations.
// Delivery is best effort; the service logs and ignores publish errors.
type TodoEventPublisherPort interface {
	PublishTodoEvent(ctx context.Context, event *models.TodoEvent) error
	Close() error
}

// TodoListCachePort - optional cache in front of the full list.
type TodoListCachePort interface {
	GetOrLoad(ctx context.Context, load func() ([]*models.Todo, error)) ([]*models.Todo, error)
	Invalidate(ctx context.Context)
}
