package middleware

import (
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/gofiber/fiber/v2"
	"medlink.com/internal/auth"
)

// Protected verifies the bearer token and checks the caller's role
// against the casbin policy for the requested path and method.
func Protected(enforcer *casbin.Enforcer, secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Missing Authorization header"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := auth.ParseToken(tokenString, secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Invalid or expired token"})
		}

		// Identity for downstream handlers
		c.Locals("id", claims.Subject)
		c.Locals("email", claims.Email)
		c.Locals("role", claims.Role)

		// Policies are defined per role, not per user
		permit, err := enforcer.Enforce(claims.Role, c.Path(), c.Method())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Permission check failed"})
		}
		if !permit {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Permission denied"})
		}

		return c.Next()
	}
}
