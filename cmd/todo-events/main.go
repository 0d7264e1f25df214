package main

import (
	"os"
	"os/signal"
	"syscall"

	"todo-api/domain/models"
	natspkg "todo-api/infrastructure/nats"
	"todo-api/pkg/config"
	"todo-api/pkg/logger"
)

// todo-events logs every change event the API publishes on NATS.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Log.Level,
		Format: formatOr(os.Getenv("TODO_EVENTS_LOG_FORMAT"), "console"),
		Output: "stdout",
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	if cfg.NATS.URL == "" {
		logger.Error("NATS_URL is not set")
		os.Exit(2)
	}

	client, err := natspkg.NewClient(natspkg.ClientConfig{URL: cfg.NATS.URL, Name: "todo-events"})
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	sub := natspkg.NewSubscriber(client.Conn(), cfg.NATS.SubjectPrefix)
	sub.OnEvent(func(subject string, e *models.TodoEvent) {
		args := []any{"subject", subject, "type", e.Type, "at", e.At}
		if e.TodoID != "" {
			args = append(args, "todo_id", e.TodoID)
		}
		if e.Todo != nil {
			args = append(args, "task", e.Todo.Task, "completed", e.Todo.Completed)
		}
		if e.Type == models.TodoEventCleared {
			args = append(args, "removed", e.Removed)
		}
		logger.Info("Todo event", args...)
	})
	if err := sub.Start(); err != nil {
		logger.Error("Failed to subscribe", "error", err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	_ = sub.Stop()
}

func formatOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
