package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/constants"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/logger"
)

// RequireRole lets the request through when the token role is one of allowed.
func RequireRole(feature string, allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocRole).(string)
		if !ok || role == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: missing role information")
		}
		for _, a := range allowed {
			if role == a {
				return c.Next()
			}
		}
		logger.Logger.Debugw("role rejected", "role", role, "feature", feature, "path", c.Path())
		return fiber.NewError(fiber.StatusForbidden, constants.RoleError(role, feature))
	}
}
