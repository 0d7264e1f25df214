package messaging

import (
	"context"

	"todo-api/domain/models"
	"todo-api/domain/ports"
	"todo-api/pkg/logger"
)

// NoopTodoEventPublisher used when NATS_URL is empty
type NoopTodoEventPublisher struct{}

func NewNoopTodoEventPublisher() *NoopTodoEventPublisher {
	return &NoopTodoEventPublisher{}
}

func (NoopTodoEventPublisher) PublishTodoEvent(ctx context.Context, event *models.TodoEvent) error {
	logger.DebugContext(ctx, "Todo event (noop)", "type", event.Type, "todo_id", event.TodoID)
	return nil
}

func (NoopTodoEventPublisher) Close() error { return nil }

var _ ports.TodoEventPublisherPort = NoopTodoEventPublisher{}
