package repositories

import (
	"context"

	"todo-api/domain/models"
)

// TodoRepository persists todo records.
//
// Implementations report a missing id as errs.ErrNotFound and every driver
// failure as errs.ErrStorageUnavailable. There are no transactions and no
// optimistic locking: each mutation overwrites the stored document.
type TodoRepository interface {
	// List returns all records, newest CreatedAt first.
	List(ctx context.Context) ([]*models.Todo, error)
	GetByID(ctx context.Context, id string) (*models.Todo, error)
	// Create persists todo. ID and CreatedAt are filled in by the caller or the store.
	Create(ctx context.Context, todo *models.Todo) error
	// Update applies only the fields present in patch and returns the stored result.
	Update(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error)
	Delete(ctx context.Context, id string) error
	// DeleteAll is idempotent and returns how many records were removed.
	DeleteAll(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}
