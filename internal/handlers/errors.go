package handlers

import (
	"errors"

	"pasarku/internal/services"

	"github.com/gofiber/fiber/v2"
)

// errorResponse maps a service error to its HTTP status and the fixed
// client-facing message. Wrapped internal detail is logged by the
// handlers, never returned.
var errorResponses = []struct {
	sentinel error
	status   int
	message  string
}{
	{services.ErrMissingFields, fiber.StatusBadRequest, "Please enter all fields."},
	{services.ErrInvalidUsername, fiber.StatusBadRequest, "Username must be in between 3 and 30 characters long."},
	{services.ErrInvalidEmail, fiber.StatusBadRequest, "Please enter a valid email address."},
	{services.ErrWeakPassword, fiber.StatusBadRequest, "Password must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, one number, and one special character."},
	{services.ErrInvalidPhone, fiber.StatusBadRequest, "Please provide a valid 10-digit phone number."},
	{services.ErrDuplicateAccount, fiber.StatusConflict, "User already exists. Please login to continue."},
	{services.ErrNotFound, fiber.StatusBadRequest, "No user found. Please register first."},
	{services.ErrInvalidCredentials, fiber.StatusBadRequest, "Invalid credentials."},
	{services.ErrUnauthenticated, fiber.StatusUnauthorized, "Authentication required."},
	{services.ErrInvalidToken, fiber.StatusUnauthorized, "Invalid or expired token."},
	{services.ErrImageUploadFailed, fiber.StatusInternalServerError, "Error in registering the user."},
	{services.ErrPersistenceFailed, fiber.StatusInternalServerError, "Error in registering the user."},
	{services.ErrStoreUnavailable, fiber.StatusInternalServerError, "Something went wrong. Please try again."},
}

// respondError writes the JSON error body for a service error.
func respondError(c *fiber.Ctx, err error) error {
	for _, r := range errorResponses {
		if errors.Is(err, r.sentinel) {
			return c.Status(r.status).JSON(fiber.Map{
				"success": false,
				"message": r.message,
			})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Something went wrong. Please try again.",
	})
}
