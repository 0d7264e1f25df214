package nats

import (
	"encoding/json"
	"sync"

	"github.com/nats-io/nats.go"

	"todo-api/domain/models"
	"todo-api/pkg/logger"
)

// TodoEventHandler is called once per received change event
type TodoEventHandler func(subject string, event *models.TodoEvent)

// Subscriber listens on {prefix}.> for todo change events
type Subscriber struct {
	conn       *nats.Conn
	prefix     string
	sub        *nats.Subscription
	handlers   []TodoEventHandler
	handlersMu sync.RWMutex
	running    bool
	runningMu  sync.Mutex
}

func NewSubscriber(conn *nats.Conn, prefix string) *Subscriber {
	if prefix == "" {
		prefix = "todos"
	}
	return &Subscriber{
		conn:     conn,
		prefix:   prefix,
		handlers: make([]TodoEventHandler, 0),
	}
}

func (s *Subscriber) OnEvent(handler TodoEventHandler) {
	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()
	s.handlers = append(s.handlers, handler)
}

func (s *Subscriber) Start() error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	if s.running {
		return nil
	}

	subject := s.prefix + ".>"
	sub, err := s.conn.Subscribe(subject, s.handleMessage)
	if err != nil {
		return err
	}
	s.sub = sub
	s.running = true

	logger.Info("NATS subscriber started", "subject", subject)
	return nil
}

func (s *Subscriber) handleMessage(msg *nats.Msg) {
	var event models.TodoEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Error("Failed to parse todo event", "subject", msg.Subject, "error", err)
		return
	}

	s.handlersMu.RLock()
	handlers := s.handlers
	s.handlersMu.RUnlock()

	// synchronous to keep delivery order
	for _, handler := range handlers {
		func(h TodoEventHandler) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Todo event handler panicked", "error", r)
				}
			}()
			h(msg.Subject, &event)
		}(handler)
	}
}

func (s *Subscriber) Stop() error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.sub != nil {
		if err := s.sub.Unsubscribe(); err != nil {
			logger.Warn("Failed to unsubscribe", "error", err)
			return err
		}
	}

	logger.Info("NATS subscriber stopped")
	return nil
}

func (s *Subscriber) IsRunning() bool {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	return s.running
}
