package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"todo-api/domain/errs"
	"todo-api/domain/models"
	"todo-api/domain/repositories"
)

// TodoRepositoryImpl process-local store for STORE_DRIVER=memory and tests.
// Records are copied in and out so callers never share memory with the store.
type TodoRepositoryImpl struct {
	mu    sync.RWMutex
	todos map[string]*entry
	seq   int64
}

type entry struct {
	todo models.Todo
	seq  int64 // insertion order, breaks CreatedAt ties
}

func NewTodoRepository() repositories.TodoRepository {
	return &TodoRepositoryImpl{todos: make(map[string]*entry)}
}

func (r *TodoRepositoryImpl) List(ctx context.Context) ([]*models.Todo, error) {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.todos))
	for _, e := range r.todos {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.todo.CreatedAt.Equal(b.todo.CreatedAt) {
			return a.todo.CreatedAt.After(b.todo.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]*models.Todo, len(entries))
	for i, e := range entries {
		t := e.todo
		out[i] = &t
	}
	return out, nil
}

func (r *TodoRepositoryImpl) GetByID(ctx context.Context, id string) (*models.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.todos[id]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", id, errs.ErrNotFound)
	}
	t := e.todo
	return &t, nil
}

func (r *TodoRepositoryImpl) Create(ctx context.Context, todo *models.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	if _, exists := r.todos[todo.ID]; exists {
		return errs.Storage("create", fmt.Errorf("duplicate id %s", todo.ID))
	}
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = time.Now().UTC()
	}

	r.seq++
	r.todos[todo.ID] = &entry{todo: *todo, seq: r.seq}
	return nil
}

func (r *TodoRepositoryImpl) Update(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.todos[id]
	if !ok {
		return nil, fmt.Errorf("update %s: %w", id, errs.ErrNotFound)
	}
	patch.Apply(&e.todo)
	t := e.todo
	return &t, nil
}

func (r *TodoRepositoryImpl) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[id]; !ok {
		return fmt.Errorf("delete %s: %w", id, errs.ErrNotFound)
	}
	delete(r.todos, id)
	return nil
}

func (r *TodoRepositoryImpl) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.todos))
	r.todos = make(map[string]*entry)
	return n, nil
}

func (r *TodoRepositoryImpl) Ping(ctx context.Context) error {
	return ctx.Err()
}
