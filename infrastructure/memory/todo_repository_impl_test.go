package memory

import (
	"context"
	"testing"

	"todo-api/domain/models"
	"todo-api/domain/repositories"
	"todo-api/domain/repositories/repotest"
)

func TestTodoRepositoryContract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repositories.TodoRepository {
		return NewTodoRepository()
	})
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	repo := NewTodoRepository()
	todo := &models.Todo{Task: "original"}
	if err := repo.Create(context.Background(), todo); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, _ := repo.GetByID(context.Background(), todo.ID)
	got.Task = "mutated"
	todo.Task = "mutated too"

	again, _ := repo.GetByID(context.Background(), todo.ID)
	if again.Task != "original" {
		t.Errorf("store shared memory with caller: %q", again.Task)
	}
}
