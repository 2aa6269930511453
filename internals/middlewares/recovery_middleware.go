package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/logger"
)

// RecoveryMiddleware turns panics into 500s and logs them with the request id.
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			logger.Logger.Errorw("panic recovered",
				"reqid", c.Locals("reqid"),
				"method", c.Method(),
				"path", c.Path(),
				"panic", e,
			)
		},
	})
}
