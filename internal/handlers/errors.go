package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/example/booknest/internal/services"
)

// ErrorHandler renders every error as {"error": message}. Payment errors carry
// their own client-safe message and status; anything else becomes a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if pe, ok := services.AsPaymentError(err); ok {
		return c.Status(pe.Status).JSON(fiber.Map{"error": pe.Message})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	log.Printf("[HTTP] %s %s failed: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}
