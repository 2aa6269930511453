package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/configs"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/middlewares/logger"
)

// SetupMiddlewares installs the global chain in order.
func SetupMiddlewares(app *fiber.App, cfg *configs.Config) {
	app.Use(RequestContext(5 * time.Second))
	app.Use(RecoveryMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(CorsMiddleware(cfg.CORSAllowOrigins))
	app.Use(GlobalRateLimiter(cfg.RateLimitMax))
}
