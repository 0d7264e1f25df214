package handlers

import (
	"todo-api/domain/services"
)

// Services contains all the services needed for handlers
type Services struct {
	TodoService        services.TodoService
	StoreHealthService services.StoreHealthService // optional
	AppName            string
}

// Handlers contains all HTTP handlers
type Handlers struct {
	TodoHandler   *TodoHandler
	HealthHandler *HealthHandler
}

func NewHandlers(services *Services) *Handlers {
	return &Handlers{
		TodoHandler:   NewTodoHandler(services.TodoService),
		HealthHandler: NewHealthHandler(services.StoreHealthService, services.AppName),
	}
}
