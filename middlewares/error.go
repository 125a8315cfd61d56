package middlewares

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"praxisplan-backend/ledger"
	"praxisplan-backend/models"
	"praxisplan-backend/scheduling"
)

// ErrorHandler centralizes error responses and keeps messages sanitized.
// Domain errors from the core packages map to stable status codes here so
// the handlers never build error bodies themselves.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// 1) Fiber errors (use their status code + message)
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	// 2) Validation errors (422 + per-field info)
	if ve, ok := err.(validator.ValidationErrors); ok {
		out := make(map[string]string, len(ve))
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  out,
		})
	}

	// 3) Domain errors
	var exceeds *ledger.ExceedsRemainingError
	if errors.As(err, &exceeds) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message":   exceeds.Error(),
			"remaining": exceeds.Remaining,
		})
	}
	var transition *scheduling.InvalidTransitionError
	if errors.As(err, &transition) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": transition.Error()})
	}
	if errors.Is(err, scheduling.ErrInvalidInput) || errors.Is(err, ledger.ErrInvalidAmount) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if errors.Is(err, models.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "not found"})
	}

	// 4) Unknown errors (500)
	log.Printf("internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}
