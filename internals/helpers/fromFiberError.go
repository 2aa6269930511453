package helper

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/logger"
)

// FromFiberError renders *fiber.Error and *ValidationError through the JSON
// envelope. Anything else becomes a 500 without leaking the internal message.
func FromFiberError(c *fiber.Ctx, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return JsonValidationError(c, ve.Fields)
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	logger.Logger.Errorw("unhandled error", "reqid", c.Locals("reqid"), "path", c.Path(), "error", err)
	return JsonError(c, fiber.StatusInternalServerError, "")
}

// ErrorHandler plugs FromFiberError into fiber.Config.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromFiberError(c, err)
}
