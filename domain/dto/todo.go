package dto

import (
	"time"

	"todo-api/domain/models"
)

// === Requests ===

type CreateTodoRequest struct {
	Task    string `json:"task" validate:"required"`
	DueDate string `json:"dueDate"`
}

// UpdateTodoRequest every field optional; only present ones are applied.
type UpdateTodoRequest struct {
	Task      *string `json:"task"`
	Completed *bool   `json:"completed"`
	DueDate   *string `json:"dueDate"`
}

func (r *UpdateTodoRequest) ToPatch() models.TodoPatch {
	return models.TodoPatch{
		Task:      r.Task,
		DueDate:   r.DueDate,
		Completed: r.Completed,
	}
}

// === Responses ===

type TodoResponse struct {
	ID        string    `json:"id"`
	Task      string    `json:"task"`
	DueDate   string    `json:"dueDate"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type DeleteAllResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

type HealthResponse struct {
	Status    string     `json:"status"`
	Service   string     `json:"service"`
	Store     string     `json:"store"`
	StoreUp   bool       `json:"storeUp"`
	LastCheck *time.Time `json:"lastCheck,omitempty"`
	LastError string     `json:"lastError,omitempty"`
}
