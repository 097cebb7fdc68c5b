package main

import (
	"log"
	"os"

	"github.com/mnorov/todo-api/app"
	"github.com/mnorov/todo-api/config"
)

func getPort() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else {
		port = ":" + port
	}

	return port
}

// @title Todo API
// @version 0.1
// @description Authenticated per-user todo list API.
// @license.name MIT
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := config.LoadENV(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	err := app.SetupAndRunApp(getPort())
	if err != nil {
		panic(err)
	}
}
