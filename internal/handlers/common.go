package handlers

import (
	"log"

	"laundrio/internal/apperrors"
	"laundrio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// identityFromCtx reads the authenticated caller placed in Locals by the
// auth middleware and hands it to services as an explicit value.
func identityFromCtx(c *fiber.Ctx) models.Identity {
	id, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(string)
	return models.Identity{ID: id, Role: role}
}

// respondError translates a service error into its HTTP response. Server
// faults are logged with their cause; the client only sees the message.
func respondError(c *fiber.Ctx, err error) error {
	code := apperrors.StatusCode(err)
	if code >= fiber.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{
		"message": apperrors.Message(err),
	})
}
