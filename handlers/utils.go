package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mnorov/todo-api/database"
	"github.com/mnorov/todo-api/models"
	"github.com/sirupsen/logrus"
)

// LocalsUserKey is where the auth middleware parks the resolved caller.
const LocalsUserKey = "user"

type Handler struct {
	Todos database.TodoStore
	Users database.UserStore
	L     *logrus.Logger
}

func NewHandler(todos database.TodoStore, users database.UserStore, l *logrus.Logger) *Handler {
	return &Handler{
		Todos: todos,
		Users: users,
		L:     l,
	}
}

// CurrentUser returns the caller resolved by the auth middleware. Nil only
// if a protected handler was somehow reached without it.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(LocalsUserKey).(*models.User)
	return user
}

// ErrorResponse writes the API's failure body. Internal detail never goes
// here; it belongs in the log.
func ErrorResponse(c *fiber.Ctx, httpStatus int, message string) error {
	return c.Status(httpStatus).JSON(fiber.Map{"message": message})
}
