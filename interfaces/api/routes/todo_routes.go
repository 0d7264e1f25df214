package routes

import (
	"github.com/gofiber/fiber/v2"

	"todo-api/interfaces/api/handlers"
)

func SetupTodoRoutes(router fiber.Router, h *handlers.Handlers) {
	todos := router.Group("/todos")
	todos.Get("/", h.TodoHandler.ListTodos)
	todos.Post("/", h.TodoHandler.CreateTodo)
	todos.Delete("/", h.TodoHandler.DeleteAllTodos)
	todos.Get("/:id", h.TodoHandler.GetTodo)
	todos.Put("/:id", h.TodoHandler.UpdateTodo)
	todos.Delete("/:id", h.TodoHandler.DeleteTodo)
}
