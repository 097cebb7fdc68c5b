package database

import (
	"context"
	"errors"

	"github.com/mnorov/todo-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned by stores when no record matches; handlers rely on
// it to tell "missing" apart from any other store failure.
var ErrNotFound = errors.New("record not found")

// TodoStore is the persistence contract the todo handlers run against.
type TodoStore interface {
	// FindByOwner returns the owner's todos, newest first.
	FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Todo, error)

	// Insert persists a new todo and assigns its ID.
	Insert(ctx context.Context, todo *models.Todo) error

	// FindByID returns a todo or ErrNotFound.
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Todo, error)

	// UpdateByID writes the non-nil patch fields and returns the
	// post-update record, or ErrNotFound.
	UpdateByID(ctx context.Context, id primitive.ObjectID, patch models.TodoPatch) (*models.Todo, error)

	// DeleteByID removes a todo permanently, or returns ErrNotFound.
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

type MongoTodoStore struct {
	coll *mongo.Collection
}

func NewMongoTodoStore(collectionName string) *MongoTodoStore {
	return &MongoTodoStore{coll: GetCollection(collectionName)}
}

func (s *MongoTodoStore) FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Todo, error) {
	todos := make([]models.Todo, 0)
	filter := bson.M{"user": owner}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	if err = cursor.All(ctx, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (s *MongoTodoStore) Insert(ctx context.Context, todo *models.Todo) error {
	todo.ID = primitive.NewObjectID()
	_, err := s.coll.InsertOne(ctx, todo)
	return err
}

func (s *MongoTodoStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Todo, error) {
	var todo models.Todo
	filter := bson.M{"_id": id}
	if err := s.coll.FindOne(ctx, filter).Decode(&todo); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &todo, nil
}

func (s *MongoTodoStore) UpdateByID(ctx context.Context, id primitive.ObjectID, patch models.TodoPatch) (*models.Todo, error) {
	set := bson.M{}
	if patch.Text != nil {
		set["text"] = *patch.Text
	}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
	}
	if patch.DueDate != nil {
		set["dueDate"] = *patch.DueDate
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}

	var updated models.Todo
	if len(set) == 0 {
		// Empty patch: nothing to write, return the current record.
		return s.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (s *MongoTodoStore) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
