package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/RoveStack/travel_service/internal/logger"
)

// RequestLogger hangs a request-scoped logger on the fiber user context so
// services and repositories can pick it up with logger.FromContext, and
// writes one completion line per request.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()

		requestID, _ := ctx.Locals("requestid").(string)
		reqLog := &logger.Logger{Logger: log.With().Str("request_id", requestID).Logger()}
		ctx.SetUserContext(reqLog.WithContext(ctx.UserContext()))

		err := ctx.Next()

		reqLog.Info().
			Str("method", ctx.Method()).
			Str("path", ctx.Path()).
			Int("status", ctx.Response().StatusCode()).
			Dur("duration", time.Since(start)).
			Msg("request completed")

		return err
	}
}
