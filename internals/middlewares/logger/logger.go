package logger

import (
	"time"

	"github.com/gofiber/fiber/v2"

	applog "github.com/yourdesigncoza/wecoza-core-sub001/internals/logger"
)

// LoggerMiddleware writes one access line per request.
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		fields := []any{
			"reqid", c.Locals("reqid"),
			"ip", c.IP(),
			"method", c.Method(),
			"path", c.OriginalURL(),
			"status", status,
			"latency", time.Since(start),
		}
		switch {
		case status >= 500:
			applog.Logger.Errorw("request", fields...)
		case status >= 400:
			applog.Logger.Warnw("request", fields...)
		default:
			applog.Logger.Infow("request", fields...)
		}
		return err
	}
}
