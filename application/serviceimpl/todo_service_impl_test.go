package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"todo-api/domain/dto"
	"todo-api/domain/errs"
	"todo-api/domain/models"
	"todo-api/domain/repositories"
	"todo-api/infrastructure/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.TodoEvent
	err    error
}

func (p *recordingPublisher) PublishTodoEvent(ctx context.Context, event *models.TodoEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []models.TodoEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.TodoEventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type countingCache struct {
	cached      []*models.Todo
	loads       int
	invalidated int
}

func (c *countingCache) GetOrLoad(ctx context.Context, load func() ([]*models.Todo, error)) ([]*models.Todo, error) {
	if c.cached != nil {
		return c.cached, nil
	}
	todos, err := load()
	if err != nil {
		return nil, err
	}
	c.loads++
	c.cached = todos
	return todos, nil
}

func (c *countingCache) Invalidate(ctx context.Context) {
	c.invalidated++
	c.cached = nil
}

func newTestService(t *testing.T) (*TodoServiceImpl, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	return newTodoService(memory.NewTodoRepository(), pub, nil, time.Now), pub
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestCreateThenCompleteExample(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTodo(ctx, &dto.CreateTodoRequest{Task: "Buy milk", DueDate: "2024-01-01"})
	if err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}
	if created.ID == "" || created.Task != "Buy milk" || created.DueDate != "2024-01-01" || created.Completed {
		t.Fatalf("unexpected record %+v", created)
	}
	if created.CreatedAt.IsZero() {
		t.Error("createdAt not assigned")
	}

	updated, err := svc.UpdateTodo(ctx, created.ID, &dto.UpdateTodoRequest{Completed: boolPtr(true)})
	if err != nil {
		t.Fatalf("UpdateTodo: %v", err)
	}
	want := *created
	want.Completed = true
	if *updated != want {
		t.Errorf("updated = %+v, want %+v", *updated, want)
	}
}

func TestListAfterInsertsIsNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	const n = 10
	ids := map[string]bool{}
	for i := 0; i < n; i++ {
		todo, err := svc.CreateTodo(ctx, &dto.CreateTodoRequest{Task: fmt.Sprintf("task %d", i)})
		if err != nil {
			t.Fatalf("CreateTodo: %v", err)
		}
		if ids[todo.ID] {
			t.Fatalf("duplicate id %s", todo.ID)
		}
		ids[todo.ID] = true
	}

	todos, err := svc.ListTodos(ctx)
	if err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	if len(todos) != n {
		t.Fatalf("len = %d, want %d", len(todos), n)
	}
	for i := 1; i < n; i++ {
		if !todos[i-1].CreatedAt.After(todos[i].CreatedAt) {
			t.Errorf("records %d/%d not strictly newest first", i-1, i)
		}
	}
	if todos[0].Task != "task 9" || todos[n-1].Task != "task 0" {
		t.Errorf("order = %q ... %q", todos[0].Task, todos[n-1].Task)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, pub := newTestService(t)

	for _, task := range []string{"", "   ", "\t\n"} {
		_, err := svc.CreateTodo(context.Background(), &dto.CreateTodoRequest{Task: task})
		if !errors.Is(err, errs.ErrValidation) {
			t.Errorf("CreateTodo(%q) error = %v, want ErrValidation", task, err)
		}
	}
	if len(pub.types()) != 0 {
		t.Errorf("events published for rejected creates: %v", pub.types())
	}
}

func TestUpdateValidationAndNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	todo, _ := svc.CreateTodo(ctx, &dto.CreateTodoRequest{Task: "x"})

	tests := []struct {
		name string
		id   string
		req  dto.UpdateTodoRequest
		want error
	}{
		{"empty body", todo.ID, dto.UpdateTodoRequest{}, errs.ErrValidation},
		{"blank task", todo.ID, dto.UpdateTodoRequest{Task: strPtr(" ")}, errs.ErrValidation},
		{"missing id", "nope", dto.UpdateTodoRequest{Completed: boolPtr(true)}, errs.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateTodo(ctx, tt.id, &tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDeleteMissingLeavesStoreUnchanged(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	svc.CreateTodo(ctx, &dto.CreateTodoRequest{Task: "keep me"})

	if err := svc.DeleteTodo(ctx, "missing"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("DeleteTodo(missing) = %v, want ErrNotFound", err)
	}
	todos, _ := svc.ListTodos(ctx)
	if len(todos) != 1 {
		t.Errorf("size = %d, want 1", len(todos))
	}
}

func TestDeleteAllThenListIsEmpty(t *testing.T) {
	svc, pub := newTestService(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		svc.CreateTodo(ctx, &dto.CreateTodoRequest{Task: "t"})
	}

	n, err := svc.DeleteAllTodos(ctx)
	if err != nil || n != 3 {
		t.Fatalf("DeleteAllTodos = %d, %v", n, err)
	}
	if n, err := svc.DeleteAllTodos(ctx); err != nil || n != 0 {
		t.Fatalf("second DeleteAllTodos = %d, %v", n, err)
	}
	todos, err := svc.ListTodos(ctx)
	if err != nil || len(todos) != 0 {
		t.Errorf("ListTodos after clear = %v, %v", todos, err)
	}

	got := pub.types()
	want := []models.TodoEventType{
		models.TodoEventCreated, models.TodoEventCreated, models.TodoEventCreated,
		models.TodoEventCleared, models.TodoEventCleared,
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("nats down")}
	svc := newTodoService(memory.NewTodoRepository(), pub, nil, time.Now)

	if _, err := svc.CreateTodo(context.Background(), &dto.CreateTodoRequest{Task: "still saved"}); err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}
	todos, _ := svc.ListTodos(context.Background())
	if len(todos) != 1 {
		t.Errorf("record not saved")
	}
}

func TestCacheInvalidatedOnMutation(t *testing.T) {
	cache := &countingCache{}
	svc := newTodoService(memory.NewTodoRepository(), &recordingPublisher{}, cache, time.Now)
	ctx := context.Background()

	todo, _ := svc.CreateTodo(ctx, &dto.CreateTodoRequest{Task: "a"})
	svc.ListTodos(ctx)
	svc.ListTodos(ctx)
	if cache.loads != 1 {
		t.Errorf("loads = %d, want 1", cache.loads)
	}

	svc.UpdateTodo(ctx, todo.ID, &dto.UpdateTodoRequest{Completed: boolPtr(true)})
	todos, _ := svc.ListTodos(ctx)
	if cache.loads != 2 || !todos[0].Completed {
		t.Errorf("stale list after update: loads=%d todos=%+v", cache.loads, todos[0])
	}
	if cache.invalidated != 2 {
		t.Errorf("invalidated = %d, want 2", cache.invalidated)
	}
}

type failingRepo struct{ repositories.TodoRepository }

func (failingRepo) List(ctx context.Context) ([]*models.Todo, error) {
	return nil, errs.Storage("list todos", errors.New("connection refused"))
}

func TestListStorageError(t *testing.T) {
	svc := newTodoService(failingRepo{}, nil, nil, time.Now)
	_, err := svc.ListTodos(context.Background())
	if !errors.Is(err, errs.ErrStorageUnavailable) {
		t.Errorf("error = %v, want ErrStorageUnavailable", err)
	}
}

func TestCreationClockNeverGoesBack(t *testing.T) {
	times := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), // wall clock stepped back
		time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC), // same instant again
		time.Date(2024, 1, 1, 0, 0, 5, 0, time.UTC),
	}
	i := 0
	c := &creationClock{now: func() time.Time { t := times[i]; i++; return t }}

	var prev time.Time
	for range times {
		got := c.next()
		if !got.After(prev) {
			t.Errorf("next() = %v, not after %v", got, prev)
		}
		prev = got
	}
	if want := times[3]; !prev.Equal(want) {
		t.Errorf("clock did not catch up with wall time: %v", prev)
	}
}
