package serverutils

import (
	"errors"

	"veritus-be/pkg/rag"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps returned errors onto HTTP statuses. Storage
// failures are the only pipeline errors that surface here; the rest degrade
// inside the pipeline or end the stream with an error token.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
		}

		if errors.Is(err, rag.ErrStorage) {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "Storage unavailable"})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}
}
