package handlers

import (
	"errors"

	"cs-agent/internal/service"

	"github.com/gofiber/fiber/v2"
)

// aiError maps engine failures onto HTTP statuses: a missing model key is
// 503 (misconfiguration, retrying won't help), everything else from the
// model side is 502.
func aiError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrNotConfigured) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "AI engine is not configured",
		})
	}
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"error": "AI engine error: " + err.Error(),
	})
}

func upstreamError(c *fiber.Ctx, upstream string, err error) error {
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"error": upstream + " error: " + err.Error(),
	})
}
