package router

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/mnorov/todo-api/database"
	"github.com/mnorov/todo-api/handlers"
	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger.
var l = logrus.New()

func SetupRoutes(app *fiber.App) {
	todoStore := database.NewMongoTodoStore(os.Getenv("TODO_COLLECTION"))
	userStore := database.NewMongoUserStore(os.Getenv("USER_COLLECTION"))
	h := handlers.NewHandler(todoStore, userStore, l)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Hello, World!",
		})
	})

	app.Get("/health", handlers.HandleHealthCheck)

	protect := Protect(userStore, database.GetUserCache())

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("/", handlers.RegisterUser(h))
	users.Post("/login", handlers.LoginUser(h))
	users.Get("/me", protect, handlers.GetMe())

	todos := api.Group("/todos", protect)
	todos.Get("/", handlers.GetTodos(h))
	todos.Post("/", handlers.CreateTodo(h))
	todos.Put("/:id", handlers.UpdateTodo(h))
	todos.Delete("/:id", handlers.DeleteTodo(h))
}
