package services

import (
	"context"
	"time"

	"todo-api/domain/dto"
	"todo-api/domain/models"
)

type TodoService interface {
	ListTodos(ctx context.Context) ([]*models.Todo, error)
	GetTodo(ctx context.Context, id string) (*models.Todo, error)
	CreateTodo(ctx context.Context, req *dto.CreateTodoRequest) (*models.Todo, error)
	UpdateTodo(ctx context.Context, id string, req *dto.UpdateTodoRequest) (*models.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
	DeleteAllTodos(ctx context.Context) (int64, error)
}

// StoreHealthService reports the result of the periodic store ping.
type StoreHealthService interface {
	RegisterHealthJob() error
	CheckNow(ctx context.Context) error
	Status() StoreStatus
}

type StoreStatus struct {
	Driver    string
	Up        bool
	Checked   bool
	LastCheck time.Time
	LastError string
}
