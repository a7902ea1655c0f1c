package middleware

import (
	"log"
	"strings"

	"pasarku/internal/services"

	"github.com/gofiber/fiber/v2"
)

// IdentityKey is the Locals key under which the verified subject email
// is stored for downstream handlers.
const IdentityKey = "identity_email"

// AuthRequired is a Fiber middleware gating protected routes. The token
// is taken from the Authorization header ("Bearer <token>") or, failing
// that, from the access_token cookie.
func AuthRequired(tokens *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Authentication required.",
			})
		}

		subject, err := tokens.VerifyToken(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid or expired token.",
			})
		}

		c.Locals(IdentityKey, subject)
		return c.Next()
	}
}

// bearerToken extracts the raw token from its carrier. The Bearer
// prefix is accepted but not required on the cookie.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	cookie := c.Cookies("access_token")
	return strings.TrimPrefix(cookie, "Bearer ")
}

// Identity returns the verified subject email set by AuthRequired.
func Identity(c *fiber.Ctx) string {
	email, _ := c.Locals(IdentityKey).(string)
	return email
}
