package helper

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ParamInt64 parses a positive integer path parameter.
func ParamInt64(c *fiber.Ctx, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || v <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, name+" must be a positive integer")
	}
	return v, nil
}

// ActorID returns the authenticated user id set by the JWT middleware.
func ActorID(c *fiber.Ctx) *int64 {
	if id, ok := c.Locals("user_id").(int64); ok && id > 0 {
		return &id
	}
	return nil
}
