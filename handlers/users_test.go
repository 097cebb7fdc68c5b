package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mnorov/todo-api/handlers"
	"github.com/mnorov/todo-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserApp(h *handlers.Handler) *fiber.App {
	app := fiber.New()
	users := app.Group("/api/users")
	users.Post("/", handlers.RegisterUser(h))
	users.Post("/login", handlers.LoginUser(h))
	return app
}

func TestRegisterIssuesParseableToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	store := newFakeUserStore()
	app := newUserApp(handlers.NewHandler(newFakeTodoStore(), store, testLogger()))

	resp := doJSON(t, app, http.MethodPost, "/api/users", "", models.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	auth := decodeBody[models.AuthResponse](t, resp)
	assert.Equal(t, "Alice", auth.Name)
	assert.Equal(t, "alice@example.com", auth.Email)
	assert.False(t, auth.ID.IsZero())

	claims := new(jwt.RegisteredClaims)
	token, err := jwt.ParseWithClaims(auth.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, auth.ID.Hex(), claims.Subject)

	// The stored password is a hash, not the plaintext.
	stored, err := store.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", stored.Password)
	assert.NotEmpty(t, stored.Password)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	store := newFakeUserStore()
	app := newUserApp(handlers.NewHandler(newFakeTodoStore(), store, testLogger()))

	req := models.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "hunter22"}
	resp := doJSON(t, app, http.MethodPost, "/api/users", "", req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/users", "", req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "User already exists", body["message"])
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	store := newFakeUserStore()
	app := newUserApp(handlers.NewHandler(newFakeTodoStore(), store, testLogger()))

	resp := doJSON(t, app, http.MethodPost, "/api/users", "", models.RegisterRequest{
		Email: "alice@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, store.users)
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	store := newFakeUserStore()
	app := newUserApp(handlers.NewHandler(newFakeTodoStore(), store, testLogger()))

	resp := doJSON(t, app, http.MethodPost, "/api/users", "", models.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/users/login", "", models.LoginRequest{
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	auth := decodeBody[models.AuthResponse](t, resp)
	assert.NotEmpty(t, auth.Token)

	resp = doJSON(t, app, http.MethodPost, "/api/users/login", "", models.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/users/login", "", models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "hunter22",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
