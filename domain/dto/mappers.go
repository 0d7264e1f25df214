package dto

import (
	"todo-api/domain/models"
)

func TodoToTodoResponse(todo *models.Todo) *TodoResponse {
	if todo == nil {
		return nil
	}
	return &TodoResponse{
		ID:        todo.ID,
		Task:      todo.Task,
		DueDate:   todo.DueDate,
		Completed: todo.Completed,
		CreatedAt: todo.CreatedAt,
	}
}

// TodosToTodoResponses never returns nil so an empty list encodes as [].
func TodosToTodoResponses(todos []*models.Todo) []TodoResponse {
	out := make([]TodoResponse, 0, len(todos))
	for _, t := range todos {
		if t == nil {
			continue
		}
		out = append(out, *TodoToTodoResponse(t))
	}
	return out
}
