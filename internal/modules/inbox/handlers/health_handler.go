package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// GatewayStatus is satisfied by *whatsapp.Service.
type GatewayStatus interface {
	IsConnected(ctx context.Context) (bool, error)
	GetProviderName() string
}

type HealthHandler struct {
	gateway GatewayStatus
}

func NewHealthHandler(gateway GatewayStatus) *HealthHandler {
	return &HealthHandler{gateway: gateway}
}

// GetHealth godoc
// @Summary Service health check
// @Description Check if API is alive and whether the gateway instance is connected
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	resp := fiber.Map{
		"status":   "ok",
		"service":  "omnichat-inbox",
		"provider": h.gateway.GetProviderName(),
	}

	connected, err := h.gateway.IsConnected(ctx)
	resp["gateway_connected"] = connected
	if err != nil {
		resp["gateway_error"] = err.Error()
	}
	return c.JSON(resp)
}
