package serverutils

import (
	"ai-supportchat-be/internal/apperror"
	"ai-supportchat-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps classified errors to the response envelope.
// Diagnostic detail (wrapped causes, provider errors) goes to the log only;
// the caller sees a stable message and error kind, never a partial body.
func ErrorHandlerMiddleware(sysLogger logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		appErr := apperror.From(err)
		status := apperror.HTTPStatus(appErr.Kind)

		details := map[string]interface{}{
			"kind":   string(appErr.Kind),
			"path":   ctx.Path(),
			"method": ctx.Method(),
		}
		if appErr.Err != nil {
			details["error"] = appErr.Err.Error()
		}
		if status >= fiber.StatusInternalServerError {
			sysLogger.Error("http", appErr.Message, details)
		} else {
			sysLogger.Warn("http", appErr.Message, details)
		}

		body := fiber.Map{
			"success":    false,
			"code":       status,
			"message":    apperror.ClientMessage(appErr),
			"error_type": string(appErr.Kind),
		}
		if appErr.Details != nil && status < fiber.StatusInternalServerError {
			body["data"] = appErr.Details
		}

		return ctx.Status(status).JSON(body)
	}
}
