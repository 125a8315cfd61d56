package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// idParam reads a numeric path parameter.
func idParam(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name+" in path")
	}
	return uint(v), nil
}
