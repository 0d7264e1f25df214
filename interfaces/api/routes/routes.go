package routes

import (
	"github.com/gofiber/fiber/v2"

	"todo-api/interfaces/api/handlers"
)

func SetupRoutes(app *fiber.App, h *handlers.Handlers) {
	// Setup health and root routes
	SetupHealthRoutes(app, h)

	// unversioned paths used by the client
	SetupTodoRoutes(app, h)

	// API version group
	api := app.Group("/api/v1")
	SetupTodoRoutes(api, h)
}
