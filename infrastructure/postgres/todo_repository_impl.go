package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"todo-api/domain/errs"
	"todo-api/domain/models"
	"todo-api/domain/repositories"
)

type TodoRepositoryImpl struct {
	db *gorm.DB
}

func NewTodoRepository(db *gorm.DB) repositories.TodoRepository {
	return &TodoRepositoryImpl{db: db}
}

func (r *TodoRepositoryImpl) List(ctx context.Context) ([]*models.Todo, error) {
	var todos []*models.Todo
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&todos).Error
	if err != nil {
		return nil, errs.Storage("list todos", err)
	}
	return todos, nil
}

func (r *TodoRepositoryImpl) GetByID(ctx context.Context, id string) (*models.Todo, error) {
	// the column is uuid typed, anything else cannot match
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("get %s: %w", id, errs.ErrNotFound)
	}

	var todo models.Todo
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&todo).Error
	if err != nil {
		return nil, mapError("get "+id, err)
	}
	return &todo, nil
}

func (r *TodoRepositoryImpl) Create(ctx context.Context, todo *models.Todo) error {
	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = time.Now()
	}
	todo.CreatedAt = todo.CreatedAt.UTC().Truncate(time.Microsecond)

	if err := r.db.WithContext(ctx).Create(todo).Error; err != nil {
		return errs.Storage("create todo", err)
	}
	return nil
}

func (r *TodoRepositoryImpl) Update(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("update %s: %w", id, errs.ErrNotFound)
	}
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	// map form so false and "" are written instead of skipped as zero values
	updates := map[string]interface{}{}
	if patch.Task != nil {
		updates["task"] = *patch.Task
	}
	if patch.DueDate != nil {
		updates["due_date"] = *patch.DueDate
	}
	if patch.Completed != nil {
		updates["completed"] = *patch.Completed
	}

	var todo models.Todo
	res := r.db.WithContext(ctx).
		Model(&todo).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return nil, errs.Storage("update "+id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("update %s: %w", id, errs.ErrNotFound)
	}
	return &todo, nil
}

func (r *TodoRepositoryImpl) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("delete %s: %w", id, errs.ErrNotFound)
	}

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Todo{})
	if res.Error != nil {
		return errs.Storage("delete "+id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete %s: %w", id, errs.ErrNotFound)
	}
	return nil
}

func (r *TodoRepositoryImpl) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Todo{})
	if res.Error != nil {
		return 0, errs.Storage("delete all todos", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *TodoRepositoryImpl) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return errs.Storage("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errs.Storage("ping", err)
	}
	return nil
}

func mapError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	return errs.Storage(op, err)
}
