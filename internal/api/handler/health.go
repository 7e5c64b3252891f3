package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/insighted-labs/presence/internal/domain"
)

// ReadinessChecker reports whether the backing store is reachable.
type ReadinessChecker func(ctx context.Context) error

type HealthHandler struct {
	check ReadinessChecker
}

func NewHealthHandler(check ReadinessChecker) *HealthHandler {
	return &HealthHandler{check: check}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "ok",
		Version: "0.1.0",
	})
}

func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if h.check != nil {
		if err := h.check(c.Context()); err != nil {
			return domain.ErrStoreUnavailable.WithError(err)
		}
	}
	return c.JSON(HealthResponse{
		Status: "ready",
	})
}
