package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/liuwy-dev/tuimian-go-api/internal/utils"
)

// RequireRole gates a route group to the given account roles. JWTProtected
// has already normalized the role claim into a lowercase string local.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("user_role").(string)
		if _, ok := allowed[role]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}
