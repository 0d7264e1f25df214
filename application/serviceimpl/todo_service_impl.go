package serviceimpl

import (
	"context"
	"strings"
	"sync"
	"time"

	"todo-api/domain/dto"
	"todo-api/domain/errs"
	"todo-api/domain/models"
	"todo-api/domain/ports"
	"todo-api/domain/repositories"
	"todo-api/domain/services"
	"todo-api/pkg/logger"
)

type TodoServiceImpl struct {
	todoRepo repositories.TodoRepository
	events   ports.TodoEventPublisherPort
	cache    ports.TodoListCachePort // optional - nil reads the store every time
	clock    *creationClock
}

func NewTodoService(todoRepo repositories.TodoRepository, events ports.TodoEventPublisherPort) services.TodoService {
	return newTodoService(todoRepo, events, nil, time.Now)
}

// NewTodoServiceWithCache same as NewTodoService with the list served from cache
func NewTodoServiceWithCache(
	todoRepo repositories.TodoRepository,
	events ports.TodoEventPublisherPort,
	cache ports.TodoListCachePort,
) services.TodoService {
	return newTodoService(todoRepo, events, cache, time.Now)
}

func newTodoService(
	todoRepo repositories.TodoRepository,
	events ports.TodoEventPublisherPort,
	cache ports.TodoListCachePort,
	now func() time.Time,
) *TodoServiceImpl {
	return &TodoServiceImpl{
		todoRepo: todoRepo,
		events:   events,
		cache:    cache,
		clock:    &creationClock{now: now},
	}
}

func (s *TodoServiceImpl) ListTodos(ctx context.Context) ([]*models.Todo, error) {
	var (
		todos []*models.Todo
		err   error
	)
	if s.cache != nil {
		todos, err = s.cache.GetOrLoad(ctx, func() ([]*models.Todo, error) {
			return s.todoRepo.List(ctx)
		})
	} else {
		todos, err = s.todoRepo.List(ctx)
	}
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list todos", "error", err)
		return nil, err
	}
	return todos, nil
}

func (s *TodoServiceImpl) GetTodo(ctx context.Context, id string) (*models.Todo, error) {
	return s.todoRepo.GetByID(ctx, id)
}

func (s *TodoServiceImpl) CreateTodo(ctx context.Context, req *dto.CreateTodoRequest) (*models.Todo, error) {
	if strings.TrimSpace(req.Task) == "" {
		return nil, errs.NewValidationError("task", "is required")
	}

	todo := &models.Todo{
		Task:      req.Task,
		DueDate:   req.DueDate,
		Completed: false,
		CreatedAt: s.clock.next(),
	}

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		logger.ErrorContext(ctx, "Failed to create todo", "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Todo created", "todo_id", todo.ID)
	s.afterMutation(ctx, &models.TodoEvent{Type: models.TodoEventCreated, TodoID: todo.ID, Todo: todo})
	return todo, nil
}

func (s *TodoServiceImpl) UpdateTodo(ctx context.Context, id string, req *dto.UpdateTodoRequest) (*models.Todo, error) {
	patch := req.ToPatch()
	if patch.IsEmpty() {
		return nil, errs.NewValidationError("body", "at least one of task, completed, dueDate is required")
	}
	if patch.Task != nil && strings.TrimSpace(*patch.Task) == "" {
		return nil, errs.NewValidationError("task", "must not be empty")
	}

	todo, err := s.todoRepo.Update(ctx, id, patch)
	if err != nil {
		logger.WarnContext(ctx, "Failed to update todo", "todo_id", id, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Todo updated", "todo_id", id)
	s.afterMutation(ctx, &models.TodoEvent{Type: models.TodoEventUpdated, TodoID: id, Todo: todo})
	return todo, nil
}

func (s *TodoServiceImpl) DeleteTodo(ctx context.Context, id string) error {
	if err := s.todoRepo.Delete(ctx, id); err != nil {
		logger.WarnContext(ctx, "Failed to delete todo", "todo_id", id, "error", err)
		return err
	}

	logger.InfoContext(ctx, "Todo deleted", "todo_id", id)
	s.afterMutation(ctx, &models.TodoEvent{Type: models.TodoEventDeleted, TodoID: id})
	return nil
}

func (s *TodoServiceImpl) DeleteAllTodos(ctx context.Context) (int64, error) {
	n, err := s.todoRepo.DeleteAll(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to delete all todos", "error", err)
		return 0, err
	}

	logger.InfoContext(ctx, "All todos deleted", "count", n)
	s.afterMutation(ctx, &models.TodoEvent{Type: models.TodoEventCleared, Removed: n})
	return n, nil
}

// afterMutation drops the cached list and publishes the change. Neither may
// fail the request: the store write already happened.
func (s *TodoServiceImpl) afterMutation(ctx context.Context, event *models.TodoEvent) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	if s.events == nil {
		return
	}
	event.At = time.Now().UTC()
	if err := s.events.PublishTodoEvent(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish todo event", "type", event.Type, "todo_id", event.TodoID, "error", err)
	}
}

// creationClock hands out strictly increasing millisecond timestamps so
// CreatedAt never goes backwards across inserts, even if the wall clock does.
type creationClock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func (c *creationClock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(time.Millisecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Millisecond)
	}
	c.last = t
	return t
}
