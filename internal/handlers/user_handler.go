package handlers

import (
	"shopapi/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// UserHandler handles HTTP requests for account signup.
type UserHandler struct {
	service *services.UserService
	logger  zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the signup route with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/signup", h.HandleSignup)
}

// HandleSignup creates a new account. The response carries no account or
// password material.
func (h *UserHandler) HandleSignup(c *fiber.Ctx) error {
	var input services.SignupInput
	if err := c.BodyParser(&input); err != nil {
		return writeBadBody(c)
	}

	if _, err := h.service.Signup(input); err != nil {
		return writeServiceError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"msg": "Signup successful",
	})
}
