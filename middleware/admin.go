package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/securespot/locker-api/models"
)

// RequireAdmin rejects any authenticated user whose role is not ADMIN.
// Must run after Protected(), which populates the role local. An
// authenticated non-admin gets 403, distinct from the 401 Protected()
// returns for missing identity.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User role not found in context",
			})
		}
		if models.UserRole(role) != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}
		return c.Next()
	}
}
