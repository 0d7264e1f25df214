package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"todo-api/domain/models"
	"todo-api/domain/ports"
	"todo-api/pkg/logger"
)

// NATSTodoEventPublisher publishes change events on core NATS.
// Subject: {prefix}.{created|updated|deleted|cleared}
type NATSTodoEventPublisher struct {
	conn   *nats.Conn
	prefix string
}

func NewNATSTodoEventPublisher(conn *nats.Conn, prefix string) *NATSTodoEventPublisher {
	if prefix == "" {
		prefix = "todos"
	}
	return &NATSTodoEventPublisher{conn: conn, prefix: prefix}
}

func TodoEventSubject(prefix string, t models.TodoEventType) string {
	return prefix + "." + string(t)
}

func (p *NATSTodoEventPublisher) PublishTodoEvent(ctx context.Context, event *models.TodoEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal todo event: %w", err)
	}

	subject := TodoEventSubject(p.prefix, event.Type)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish todo event: %w", err)
	}

	logger.DebugContext(ctx, "Todo event published", "subject", subject, "todo_id", event.TodoID)
	return nil
}

// Close is a no-op; the connection belongs to the nats.Client
func (p *NATSTodoEventPublisher) Close() error {
	return nil
}

var _ ports.TodoEventPublisherPort = (*NATSTodoEventPublisher)(nil)
