package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/RoveStack/travel_service/internal/helper"
	"github.com/RoveStack/travel_service/internal/helper/utils"
	"github.com/RoveStack/travel_service/internal/repository"
	"github.com/RoveStack/travel_service/internal/services"
)

const genericErrorMessage = "Something went wrong"

const (
	authCookieName   = "token"
	authCookieMaxAge = 24 * time.Hour
	stateCookieName  = "oauth_state"
)

// respondServiceError is the shared fallback mapping. Handlers with
// operation-specific wording do their own switch before calling this.
func respondServiceError(ctx *fiber.Ctx, err error) error {
	var apiErr *helper.ApiError
	if errors.As(err, &apiErr) {
		return utils.ResponseError(ctx, apiErr.Status, apiErr.Message)
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return utils.ResponseError(ctx, fiber.StatusNotFound, "not found")
	case errors.Is(err, services.ErrTripNotPending):
		return utils.ResponseError(ctx, fiber.StatusConflict, services.ErrTripNotPending.Error())
	}

	return utils.ResponseError(ctx, fiber.StatusInternalServerError, genericErrorMessage)
}

func setAuthCookie(ctx *fiber.Ctx, token string) {
	ctx.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(authCookieMaxAge.Seconds()),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func clearAuthCookie(ctx *fiber.Ctx) {
	ctx.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}
