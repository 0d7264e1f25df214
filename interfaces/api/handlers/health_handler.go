package handlers

import (
	"github.com/gofiber/fiber/v2"

	"todo-api/domain/dto"
	"todo-api/domain/services"
)

type HealthHandler struct {
	storeHealth services.StoreHealthService
	appName     string
}

func NewHealthHandler(storeHealth services.StoreHealthService, appName string) *HealthHandler {
	return &HealthHandler{storeHealth: storeHealth, appName: appName}
}

func (h *HealthHandler) Ping(c *fiber.Ctx) error {
	return c.JSON(dto.MessageResponse{Message: "pong"})
}

// Health reports the last scheduled store ping; 503 once the store is known down
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	resp := dto.HealthResponse{Status: "ok", Service: h.appName, StoreUp: true}
	if h.storeHealth == nil {
		return c.JSON(resp)
	}

	st := h.storeHealth.Status()
	resp.Store = st.Driver
	if !st.Checked {
		return c.JSON(resp)
	}

	checked := st.LastCheck
	resp.LastCheck = &checked
	resp.StoreUp = st.Up
	if !st.Up {
		resp.Status = "degraded"
		resp.LastError = st.LastError
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
