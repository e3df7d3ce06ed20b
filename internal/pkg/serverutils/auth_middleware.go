package serverutils

import (
	"strings"

	"ai-supportchat-be/internal/entity"
	"ai-supportchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const localsAccountKey = "account"

// AuthMiddleware verifies the bearer credential and resolves the calling
// account before any handler logic runs. Failures are classified apperrors
// handled by the error middleware, so unauthenticated callers learn nothing
// about session existence.
func AuthMiddleware(authService service.IAuthService) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)

		var rawToken string
		if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
			rawToken = header[7:]
		}

		account, err := authService.VerifyToken(ctx.UserContext(), rawToken)
		if err != nil {
			return err
		}

		ctx.Locals(localsAccountKey, account)
		return ctx.Next()
	}
}

// AccountFromLocals returns the account resolved by AuthMiddleware, or nil
// on routes where the middleware did not run.
func AccountFromLocals(ctx *fiber.Ctx) *entity.Account {
	account, _ := ctx.Locals(localsAccountKey).(*entity.Account)
	return account
}
