package serverutils

import (
	"rag-debugger-be/internal/pkg/apperror"
	"rag-debugger-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type errorBody struct {
	Message string `json:"message"`
	ErrorId string `json:"error_id,omitempty"`
}

// ErrorHandlerMiddleware maps the error taxonomy onto HTTP statuses.
// Storage and unknown errors are logged with a correlation id and
// answered with a generic message so internals never leak to clients.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		switch {
		case apperror.IsNotFound(err):
			return ctx.Status(fiber.StatusNotFound).JSON(errorBody{Message: err.Error()})
		case apperror.IsValidation(err):
			return ctx.Status(fiber.StatusBadRequest).JSON(errorBody{Message: err.Error()})
		}

		if fiberErr, ok := err.(*fiber.Error); ok {
			return ctx.Status(fiberErr.Code).JSON(errorBody{Message: fiberErr.Message})
		}

		errorId := uuid.New().String()
		log.Error("http", "unhandled error", map[string]interface{}{
			"error_id": errorId,
			"path":     ctx.Path(),
			"method":   ctx.Method(),
			"error":    err.Error(),
		})

		return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody{
			Message: "internal server error",
			ErrorId: errorId,
		})
	}
}
