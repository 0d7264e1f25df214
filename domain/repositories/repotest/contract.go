// Package repotest holds the behaviour every TodoRepository must share.
// Driver packages run it against their own backend.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"todo-api/domain/errs"
	"todo-api/domain/models"
	"todo-api/domain/repositories"
)

// Factory returns an empty repository. Cleanup is the caller's business (t.Cleanup).
type Factory func(t *testing.T) repositories.TodoRepository

// Run executes the contract against fresh repositories from newRepo.
func Run(t *testing.T, newRepo Factory) {
	t.Run("CreateAssignsUniqueIDs", func(t *testing.T) { testCreateAssignsUniqueIDs(t, newRepo(t)) })
	t.Run("ListNewestFirst", func(t *testing.T) { testListNewestFirst(t, newRepo(t)) })
	t.Run("GetByIDNotFound", func(t *testing.T) { testGetByIDNotFound(t, newRepo(t)) })
	t.Run("UpdateOnlyPresentFields", func(t *testing.T) { testUpdateOnlyPresentFields(t, newRepo(t)) })
	t.Run("UpdateMissing", func(t *testing.T) { testUpdateMissing(t, newRepo(t)) })
	t.Run("DeleteMissingKeepsSize", func(t *testing.T) { testDeleteMissingKeepsSize(t, newRepo(t)) })
	t.Run("DeleteAllIdempotent", func(t *testing.T) { testDeleteAllIdempotent(t, newRepo(t)) })
}

// base keeps timestamps at millisecond precision, the coarsest any driver stores
var base = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func insert(t *testing.T, repo repositories.TodoRepository, task string, offset time.Duration) *models.Todo {
	t.Helper()
	todo := &models.Todo{Task: task, DueDate: "2024-01-01", CreatedAt: base.Add(offset)}
	if err := repo.Create(context.Background(), todo); err != nil {
		t.Fatalf("Create(%q): %v", task, err)
	}
	if todo.ID == "" {
		t.Fatalf("Create(%q) left ID empty", task)
	}
	return todo
}

func testCreateAssignsUniqueIDs(t *testing.T, repo repositories.TodoRepository) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		todo := insert(t, repo, fmt.Sprintf("task %d", i), time.Duration(i)*time.Millisecond)
		if seen[todo.ID] {
			t.Fatalf("duplicate id %s", todo.ID)
		}
		seen[todo.ID] = true
		if todo.Completed {
			t.Errorf("new todo should not be completed")
		}
	}

	// deleted ids are not handed out again
	first := insert(t, repo, "to delete", time.Second)
	if err := repo.Delete(context.Background(), first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	again := insert(t, repo, "after delete", 2*time.Second)
	if again.ID == first.ID || seen[again.ID] {
		t.Errorf("id %s reused", again.ID)
	}
}

func testListNewestFirst(t *testing.T, repo repositories.TodoRepository) {
	const n = 5
	for i := 0; i < n; i++ {
		insert(t, repo, fmt.Sprintf("task %d", i), time.Duration(i)*time.Second)
	}

	todos, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(todos) != n {
		t.Fatalf("List returned %d records, want %d", len(todos), n)
	}
	for i := 1; i < len(todos); i++ {
		if todos[i-1].CreatedAt.Before(todos[i].CreatedAt) {
			t.Errorf("records %d and %d out of order: %v before %v", i-1, i, todos[i-1].CreatedAt, todos[i].CreatedAt)
		}
	}
	if todos[0].Task != "task 4" {
		t.Errorf("newest = %q, want task 4", todos[0].Task)
	}
}

func testGetByIDNotFound(t *testing.T, repo repositories.TodoRepository) {
	for _, id := range []string{"does-not-exist", "000000000000000000000000", "7c0e0a4e-1a2b-4c3d-9e8f-000000000000"} {
		_, err := repo.GetByID(context.Background(), id)
		if !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("GetByID(%q) error = %v, want ErrNotFound", id, err)
		}
	}
}

func testUpdateOnlyPresentFields(t *testing.T, repo repositories.TodoRepository) {
	created := insert(t, repo, "Buy milk", 0)

	done := true
	updated, err := repo.Update(context.Background(), created.ID, models.TodoPatch{Completed: &done})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.Completed {
		t.Errorf("completed not applied")
	}
	if updated.ID != created.ID || updated.Task != "Buy milk" || updated.DueDate != "2024-01-01" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("createdAt changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}

	got, err := repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.Completed || got.Task != "Buy milk" {
		t.Errorf("update not persisted: %+v", got)
	}

	task := "Buy oat milk"
	empty := ""
	updated, err = repo.Update(context.Background(), created.ID, models.TodoPatch{Task: &task, DueDate: &empty})
	if err != nil {
		t.Fatalf("Update task: %v", err)
	}
	if updated.Task != task || updated.DueDate != "" || !updated.Completed {
		t.Errorf("second update = %+v", updated)
	}
}

func testUpdateMissing(t *testing.T, repo repositories.TodoRepository) {
	done := true
	_, err := repo.Update(context.Background(), "missing", models.TodoPatch{Completed: &done})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}
}

func testDeleteMissingKeepsSize(t *testing.T, repo repositories.TodoRepository) {
	insert(t, repo, "a", 0)
	insert(t, repo, "b", time.Millisecond)

	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrNotFound", err)
	}
	todos, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(todos) != 2 {
		t.Errorf("size = %d after failed delete, want 2", len(todos))
	}
}

func testDeleteAllIdempotent(t *testing.T, repo repositories.TodoRepository) {
	for i := 0; i < 3; i++ {
		insert(t, repo, fmt.Sprintf("t%d", i), time.Duration(i)*time.Millisecond)
	}

	n, err := repo.DeleteAll(context.Background())
	if err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if n != 3 {
		t.Errorf("DeleteAll removed %d, want 3", n)
	}
	if n, err = repo.DeleteAll(context.Background()); err != nil || n != 0 {
		t.Errorf("second DeleteAll = %d, %v; want 0, nil", n, err)
	}

	todos, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(todos) != 0 {
		t.Errorf("List after DeleteAll = %d records", len(todos))
	}
}
