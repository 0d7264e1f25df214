package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"todo-api/domain/dto"
	"todo-api/domain/errs"
	"todo-api/domain/services"
	"todo-api/pkg/logger"
	"todo-api/pkg/utils"
)

type TodoHandler struct {
	todoService services.TodoService
}

func NewTodoHandler(todoService services.TodoService) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
	}
}

func (h *TodoHandler) ListTodos(c *fiber.Ctx) error {
	ctx := c.UserContext()

	todos, err := h.todoService.ListTodos(ctx)
	if err != nil {
		return h.respondError(c, err)
	}

	return utils.SuccessResponse(c, dto.TodosToTodoResponses(todos))
}

func (h *TodoHandler) GetTodo(c *fiber.Ctx) error {
	ctx := c.UserContext()

	todo, err := h.todoService.GetTodo(ctx, c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}

	return utils.SuccessResponse(c, dto.TodoToTodoResponse(todo))
}

func (h *TodoHandler) CreateTodo(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.CreateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		fields := utils.GetValidationErrors(err)
		logger.WarnContext(ctx, "Validation failed", "errors", fields)
		return utils.ValidationErrorResponse(c, "task is required", fields)
	}

	todo, err := h.todoService.CreateTodo(ctx, &req)
	if err != nil {
		return h.respondError(c, err)
	}

	return utils.CreatedResponse(c, dto.TodoToTodoResponse(todo))
}

func (h *TodoHandler) UpdateTodo(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")

	var req dto.UpdateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "todo_id", id, "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	todo, err := h.todoService.UpdateTodo(ctx, id, &req)
	if err != nil {
		return h.respondError(c, err)
	}

	return utils.SuccessResponse(c, dto.TodoToTodoResponse(todo))
}

func (h *TodoHandler) DeleteTodo(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if err := h.todoService.DeleteTodo(ctx, c.Params("id")); err != nil {
		return h.respondError(c, err)
	}

	return utils.MessageResponse(c, "Todo deleted")
}

func (h *TodoHandler) DeleteAllTodos(c *fiber.Ctx) error {
	ctx := c.UserContext()

	n, err := h.todoService.DeleteAllTodos(ctx)
	if err != nil {
		return h.respondError(c, err)
	}

	return utils.SuccessResponse(c, dto.DeleteAllResponse{
		Message: "All todos deleted",
		Deleted: n,
	})
}

// respondError NotFound→404, Validation→400, anything else (storage included)→500
func (h *TodoHandler) respondError(c *fiber.Ctx, err error) error {
	var verr *errs.ValidationError

	switch {
	case errors.Is(err, errs.ErrNotFound):
		return utils.NotFoundResponse(c, "Todo not found")
	case errors.As(err, &verr):
		return utils.ValidationErrorResponse(c, verr.Error(), []utils.FieldError{{Field: verr.Field, Rule: verr.Reason}})
	case errors.Is(err, errs.ErrValidation):
		return utils.ValidationErrorResponse(c, err.Error(), nil)
	case errors.Is(err, errs.ErrStorageUnavailable):
		logger.ErrorContext(c.UserContext(), "Storage error", "path", c.Path(), "error", err)
		return utils.StorageUnavailableResponse(c)
	default:
		logger.ErrorContext(c.UserContext(), "Unexpected error", "path", c.Path(), "error", err)
		return utils.InternalServerErrorResponse(c)
	}
}
