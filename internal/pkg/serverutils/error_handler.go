package serverutils

import (
	"errors"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type errorMapping struct {
	target error
	status int
	// expose the wrapped message instead of the sentinel text
	detailed bool
}

var errorMappings = []errorMapping{
	{entity.ErrValidation, fiber.StatusBadRequest, true},
	{entity.ErrInvalidPlan, fiber.StatusBadRequest, false},
	{entity.ErrPaymentNotCompleted, fiber.StatusBadRequest, false},
	{entity.ErrInsufficientBalance, fiber.StatusPaymentRequired, false},
	{entity.ErrNotFound, fiber.StatusNotFound, false},
	{entity.ErrUnauthorized, fiber.StatusUnauthorized, false},
	{entity.ErrInvalidCredentials, fiber.StatusUnauthorized, false},
	{entity.ErrInvalidSignature, fiber.StatusUnauthorized, false},
	{entity.ErrEmailTaken, fiber.StatusConflict, false},
	{entity.ErrProviderUnauthorized, fiber.StatusServiceUnavailable, false},
	{entity.ErrProviderRateLimited, fiber.StatusTooManyRequests, false},
	{entity.ErrProviderUnavailable, fiber.StatusBadGateway, false},
}

// StatusFor maps an error to the HTTP status and the message safe to show a client.
func StatusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			if m.detailed {
				return m.status, err.Error()
			}
			return m.status, m.target.Error()
		}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	return fiber.StatusInternalServerError, "internal server error"
}

// ErrorHandler is installed as fiber.Config.ErrorHandler.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		status, message := StatusFor(err)

		if status >= fiber.StatusInternalServerError {
			log.Error("HTTP", "request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"status": status,
				"error":  err.Error(),
			})
		}

		var verr *ValidationError
		if errors.As(err, &verr) {
			return ctx.Status(status).JSON(ValidationErrorResponse{
				Success: false,
				Code:    status,
				Message: "validation failed",
				Errors:  verr.Fields,
			})
		}

		return ctx.Status(status).JSON(ErrorResponse(status, message))
	}
}

// ErrorHandlerMiddleware translates errors returned by downstream handlers
// so route groups behave the same regardless of app config.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	handle := ErrorHandler(log)
	return func(ctx *fiber.Ctx) error {
		if err := ctx.Next(); err != nil {
			return handle(ctx, err)
		}
		return nil
	}
}
