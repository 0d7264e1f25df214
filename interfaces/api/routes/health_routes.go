package routes

import (
	"github.com/gofiber/fiber/v2"

	"todo-api/interfaces/api/handlers"
)

func SetupHealthRoutes(app *fiber.App, h *handlers.Handlers) {
	app.Get("/ping", h.HealthHandler.Ping)
	app.Get("/health", h.HealthHandler.Health)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Todo API",
			"todos":   "/todos",
			"docs":    "/api/v1/todos",
			"health":  "/health",
		})
	})
}
