package controller

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/repository"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/service"
	helper "github.com/yourdesigncoza/wecoza-core-sub001/internals/helpers"
)

// writeError maps an error kind to a status. Query failures keep their
// detail in the logs and answer with the fallback message.
func writeError(c *fiber.Ctx, err error, fallback string) error {
	switch service.KindOf(err) {
	case repository.KindNotFound:
		return helper.JsonError(c, fiber.StatusNotFound, "Progression not found")
	case repository.KindValidation:
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	case repository.KindConflict:
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
	}
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	return nil
}

func parseQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	return validate(out)
}

func validate(v any) error {
	if err := helper.ValidateStruct(v); err != nil {
		var ve *helper.ValidationError
		if errors.As(err, &ve) {
			return ve
		}
		return fiber.NewError(fiber.StatusBadRequest, "Invalid input")
	}
	return nil
}
