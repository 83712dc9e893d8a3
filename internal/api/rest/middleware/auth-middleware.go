package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/RoveStack/travel_service/internal/domain"
	"github.com/RoveStack/travel_service/internal/helper"
	"github.com/RoveStack/travel_service/internal/helper/utils"
)

// AuthMiddleware resolves the caller from the token cookie first, then the
// Authorization header.
func AuthMiddleware(auth helper.Auth) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := strings.TrimSpace(ctx.Cookies("token"))
		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get("Authorization"))
		}

		claims, err := auth.VerifyToken(tokenStr)
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
		}

		ctx.Locals("userID", claims.UserID)
		ctx.Locals(helper.LocalsUserKey, claims)
		return ctx.Next()
	}
}

// AdminOnly runs after AuthMiddleware and gates on the role claim.
func AdminOnly() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		claims, ok := ctx.Locals(helper.LocalsUserKey).(*helper.TokenClaims)
		if !ok || claims == nil {
			return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
		}
		if claims.Role != domain.RoleAdmin {
			return utils.ResponseError(ctx, fiber.StatusForbidden, "admin only")
		}
		return ctx.Next()
	}
}
