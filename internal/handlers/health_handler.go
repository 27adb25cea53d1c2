package handlers

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/dto"
	"github.com/gofiber/fiber/v2"
)

const serviceName = "obstacle-registry"

type HealthHandler struct {
	ping func() error
}

// NewHealthHandler takes the database ping used to report DB status.
func NewHealthHandler(ping func() error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// Check answers 503 when the report store is unreachable so load balancers
// stop routing submissions to this instance.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Database:  "ok",
		Service:   serviceName,
	}

	if err := h.ping(); err != nil {
		slog.Warn("health check: database unreachable", "error", err)
		resp.Status = "degraded"
		resp.Database = "unreachable"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
