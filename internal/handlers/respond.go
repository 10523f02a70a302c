package handlers

import (
	"errors"

	"shopapi/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// writeServiceError maps a service outcome to the HTTP contract. Anything
// outside the typed set is a server-side failure and yields a generic 500
// so no internal detail leaks to clients.
func writeServiceError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError
	var conflictErr *services.ConflictError

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"msg": validationErr.Error(),
		})
	case errors.As(err, &notFoundErr):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"msg": notFoundErr.Error(),
		})
	case errors.As(err, &conflictErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"msg": conflictErr.Error(),
		})
	default:
		logger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"msg": "Server error",
		})
	}
}

func writeBadBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"msg": "Invalid request body",
	})
}
