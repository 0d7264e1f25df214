package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"todo-api/domain/errs"
	"todo-api/domain/models"
	"todo-api/domain/repositories"
)

// todoDocument storage shape; ids are ObjectIDs, exposed as hex strings
type todoDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Task      string             `bson:"task"`
	DueDate   string             `bson:"due_date"`
	Completed bool               `bson:"completed"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d *todoDocument) toModel() *models.Todo {
	return &models.Todo{
		ID:        d.ID.Hex(),
		Task:      d.Task,
		DueDate:   d.DueDate,
		Completed: d.Completed,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// newest first; ObjectIDs grow with insertion so they settle equal timestamps
var listSort = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

type TodoRepositoryImpl struct {
	coll *mongo.Collection
}

func NewTodoRepository(coll *mongo.Collection) repositories.TodoRepository {
	return &TodoRepositoryImpl{coll: coll}
}

// EnsureIndexes creates the created_at index used by List
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    listSort,
		Options: options.Index().SetName("created_at_desc"),
	})
	if err != nil {
		return fmt.Errorf("failed to create todos index: %w", err)
	}
	return nil
}

func (r *TodoRepositoryImpl) List(ctx context.Context) ([]*models.Todo, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(listSort))
	if err != nil {
		return nil, errs.Storage("list todos", err)
	}
	defer cur.Close(ctx)

	var docs []todoDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errs.Storage("list todos", err)
	}

	todos := make([]*models.Todo, 0, len(docs))
	for i := range docs {
		todos = append(todos, docs[i].toModel())
	}
	return todos, nil
}

func (r *TodoRepositoryImpl) GetByID(ctx context.Context, id string) (*models.Todo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, errs.ErrNotFound)
	}

	var doc todoDocument
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		return nil, mapError("get "+id, err)
	}
	return doc.toModel(), nil
}

func (r *TodoRepositoryImpl) Create(ctx context.Context, todo *models.Todo) error {
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = time.Now()
	}

	doc := todoDocument{
		ID:        primitive.NewObjectID(),
		Task:      todo.Task,
		DueDate:   todo.DueDate,
		Completed: todo.Completed,
		// BSON dates hold milliseconds
		CreatedAt: todo.CreatedAt.UTC().Truncate(time.Millisecond),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return errs.Storage("create todo", err)
	}

	todo.ID = doc.ID.Hex()
	todo.CreatedAt = doc.CreatedAt
	return nil
}

func (r *TodoRepositoryImpl) Update(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", id, errs.ErrNotFound)
	}

	// $set must not be empty
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	set := bson.M{}
	if patch.Task != nil {
		set["task"] = *patch.Task
	}
	if patch.DueDate != nil {
		set["due_date"] = *patch.DueDate
	}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
	}

	var doc todoDocument
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, mapError("update "+id, err)
	}
	return doc.toModel(), nil
}

func (r *TodoRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, errs.ErrNotFound)
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errs.Storage("delete "+id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete %s: %w", id, errs.ErrNotFound)
	}
	return nil
}

func (r *TodoRepositoryImpl) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, errs.Storage("delete all todos", err)
	}
	return res.DeletedCount, nil
}

func (r *TodoRepositoryImpl) Ping(ctx context.Context) error {
	if err := r.coll.Database().Client().Ping(ctx, nil); err != nil {
		return errs.Storage("ping", err)
	}
	return nil
}

func mapError(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	return errs.Storage(op, err)
}
