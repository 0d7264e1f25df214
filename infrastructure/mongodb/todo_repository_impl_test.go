package mongodb

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"todo-api/domain/repositories"
	"todo-api/domain/repositories/repotest"
	"todo-api/pkg/config"
)

// Runs only when TEST_MONGO_URI points at a disposable server.
func TestTodoRepositoryContract(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	client, err := NewClient(&config.MongoConfig{URI: uri, Database: "todo_test", ConnectTimeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = client.Close(context.Background()) })

	n := 0
	repotest.Run(t, func(t *testing.T) repositories.TodoRepository {
		n++
		coll := client.Collection(fmt.Sprintf("todos_%d_%d", time.Now().UnixNano(), n))
		if err := EnsureIndexes(context.Background(), coll); err != nil {
			t.Fatalf("EnsureIndexes: %v", err)
		}
		t.Cleanup(func() { _ = coll.Drop(context.Background()) })
		return NewTodoRepository(coll)
	})
}

func TestDocumentToModel(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	doc := todoDocument{Task: "Buy milk", DueDate: "2024-01-01", CreatedAt: created}
	m := doc.toModel()
	if m.ID != doc.ID.Hex() || m.Task != "Buy milk" || m.DueDate != "2024-01-01" || m.Completed {
		t.Errorf("unexpected model %+v", m)
	}
	if !m.CreatedAt.Equal(created) {
		t.Errorf("createdAt = %v", m.CreatedAt)
	}
}
