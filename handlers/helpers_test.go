package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/mnorov/todo-api/database"
	"github.com/mnorov/todo-api/handlers"
	"github.com/mnorov/todo-api/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeTodoStore is an in-memory TodoStore with the same not-found contract
// as the Mongo implementation.
type fakeTodoStore struct {
	todos map[primitive.ObjectID]models.Todo
	err   error
}

func newFakeTodoStore() *fakeTodoStore {
	return &fakeTodoStore{todos: make(map[primitive.ObjectID]models.Todo)}
}

func (s *fakeTodoStore) FindByOwner(_ context.Context, owner primitive.ObjectID) ([]models.Todo, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Todo, 0)
	for _, t := range s.todos {
		if t.User == owner {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *fakeTodoStore) Insert(_ context.Context, todo *models.Todo) error {
	if s.err != nil {
		return s.err
	}
	todo.ID = primitive.NewObjectID()
	s.todos[todo.ID] = *todo
	return nil
}

func (s *fakeTodoStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Todo, error) {
	if s.err != nil {
		return nil, s.err
	}
	t, ok := s.todos[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &t, nil
}

func (s *fakeTodoStore) UpdateByID(_ context.Context, id primitive.ObjectID, patch models.TodoPatch) (*models.Todo, error) {
	if s.err != nil {
		return nil, s.err
	}
	t, ok := s.todos[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	if patch.Text != nil {
		t.Text = *patch.Text
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	if patch.DueDate != nil {
		t.DueDate = *patch.DueDate
	}
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	s.todos[id] = t
	return &t, nil
}

func (s *fakeTodoStore) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.todos[id]; !ok {
		return database.ErrNotFound
	}
	delete(s.todos, id)
	return nil
}

// fakeUserStore keys users by email and id.
type fakeUserStore struct {
	users map[primitive.ObjectID]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (s *fakeUserStore) Insert(_ context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	s.users[user.ID] = *user
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &u, nil
}

// newTestApp wires the todo routes behind a stand-in auth middleware: the
// X-User header picks the caller out of the given set.
func newTestApp(h *handlers.Handler, callers map[string]*models.User) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		user, ok := callers[c.Get("X-User")]
		if !ok {
			return handlers.ErrorResponse(c, fiber.StatusUnauthorized, "Not authorized, no token")
		}
		c.Locals(handlers.LocalsUserKey, user)
		return c.Next()
	})

	todos := app.Group("/api/todos")
	todos.Get("/", handlers.GetTodos(h))
	todos.Post("/", handlers.CreateTodo(h))
	todos.Put("/:id", handlers.UpdateTodo(h))
	todos.Delete("/:id", handlers.DeleteTodo(h))
	return app
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func doJSON(t *testing.T, app *fiber.App, method, target, caller string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set("X-User", caller)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}
