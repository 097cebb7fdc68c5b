package app

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mnorov/todo-api/config"
	"github.com/mnorov/todo-api/database"
	"github.com/mnorov/todo-api/router"
)

// SetupAndRunApp handle app and database start and graceful shutdown
func SetupAndRunApp(port string) error {
	// start database
	err := database.StartMongoDB()
	if err != nil {
		return err
	}

	// defer closing database
	defer database.CloseMongoDB()

	// start redis, used by the auth middleware's user cache
	err = database.StartRedis()
	if err != nil {
		return err
	}
	defer database.CloseRedis()

	// create app
	app := fiber.New()

	// attach middleware
	FiberMiddleware(app)

	// setup routes
	router.SetupRoutes(app)

	// attach swagger
	config.AddSwaggerRoutes(app)

	StartServerWithGracefulShutdown(app, port)

	return nil
}
