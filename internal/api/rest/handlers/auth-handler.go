package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/RoveStack/travel_service/internal/clients/google"
	"github.com/RoveStack/travel_service/internal/dto"
	"github.com/RoveStack/travel_service/internal/helper"
	"github.com/RoveStack/travel_service/internal/helper/utils"
	"github.com/RoveStack/travel_service/internal/repository"
	"github.com/RoveStack/travel_service/internal/services"
)

type AuthHandler struct {
	svc    services.AuthService
	auth   helper.Auth
	google *google.Client
}

func NewAuthHandler(svc services.AuthService, auth helper.Auth, googleClient *google.Client) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		auth:   auth,
		google: googleClient,
	}
}

func (h *AuthHandler) SetupRoutes(app *fiber.App, authRequired fiber.Handler) {
	api := app.Group("/api")

	// =========================
	// USER / AUTH
	// =========================
	user := api.Group("/user")

	user.Post("/signup", h.SignUp)
	user.Get("/verify-email", h.VerifyEmail)
	user.Post("/login", h.Login)
	user.Post("/logout", h.Logout)

	// Password reset handshake
	user.Post("/forgot-password", h.ForgotPassword)
	user.Get("/reset-password", h.VerifyResetLink)
	user.Post("/reset-password/:email", h.ResetPassword)

	// Social login
	user.Get("/google", h.GoogleLogin)
	user.Get("/google/callback", h.GoogleCallback)

	user.Get("/me", authRequired, h.Me)
}

func (h *AuthHandler) SignUp(ctx *fiber.Ctx) error {
	var requestBody dto.RegisterRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	resp, err := h.svc.SignUp(ctx.UserContext(), requestBody)
	if err != nil {
		var apiErr *helper.ApiError
		if errors.As(err, &apiErr) {
			return utils.ResponseError(ctx, apiErr.Status, apiErr.Message)
		}
		// Persistence failures stay opaque on this route.
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, genericErrorMessage)
	}

	setAuthCookie(ctx, resp.User.Token)
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, resp)
}

func (h *AuthHandler) VerifyEmail(ctx *fiber.Ctx) error {
	err := h.svc.VerifyEmail(ctx.UserContext(), ctx.Query("token"))
	switch {
	case err == nil:
		return utils.ResponseSuccess(ctx, fiber.StatusOK, "Email verified successfully")
	case errors.Is(err, helper.ErrTokenExpired), errors.Is(err, helper.ErrTokenInvalid):
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Invalid token, verification unsuccessful")
	case errors.Is(err, repository.ErrNotFound):
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "no user found to verify")
	default:
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, genericErrorMessage)
	}
}

func (h *AuthHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.UserLogin
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	user, err := h.svc.Login(ctx.UserContext(), requestBody)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return utils.ResponseError(ctx, fiber.StatusUnauthorized, "Invalid login details")
		}
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, genericErrorMessage)
	}

	setAuthCookie(ctx, user.Token)
	return utils.ResponseSuccess(ctx, fiber.StatusOK, user)
}

func (h *AuthHandler) Logout(ctx *fiber.Ctx) error {
	clearAuthCookie(ctx)
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "You have been logged out successfully")
}

func (h *AuthHandler) ForgotPassword(ctx *fiber.Ctx) error {
	var requestBody dto.ForgotPasswordRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	err := h.svc.SendResetPasswordEmail(ctx.UserContext(), requestBody.Email)
	switch {
	case err == nil:
		return utils.ResponseSuccess(ctx, fiber.StatusOK, "Password reset link has been sent to your email")
	case errors.Is(err, repository.ErrNotFound):
		return utils.ResponseError(ctx, fiber.StatusNotFound, "User account does not exist")
	case errors.Is(err, services.ErrMailNotSent):
		return utils.ResponseError(ctx, fiber.StatusNotFound, services.ErrMailNotSent.Error())
	default:
		return respondServiceError(ctx, err)
	}
}

func (h *AuthHandler) VerifyResetLink(ctx *fiber.Ctx) error {
	resp, err := h.svc.VerifyPasswordResetLink(ctx.UserContext(), ctx.Query("token"))
	switch {
	case err == nil:
		return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
	case errors.Is(err, helper.ErrTokenExpired):
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Verification unsuccessful, token expired")
	case errors.Is(err, helper.ErrTokenInvalid):
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Verification unsuccessful, invalid token")
	default:
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, genericErrorMessage)
	}
}

func (h *AuthHandler) ResetPassword(ctx *fiber.Ctx) error {
	email, err := url.PathUnescape(ctx.Params("email"))
	if err != nil || strings.TrimSpace(email) == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	var requestBody dto.ResetPasswordRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	err = h.svc.ResetPassword(ctx.UserContext(), email, requestBody)
	switch {
	case err == nil:
		return utils.ResponseSuccess(ctx, fiber.StatusOK, "Password reset successful")
	case errors.Is(err, helper.ErrTokenExpired):
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Verification unsuccessful, token expired")
	case errors.Is(err, helper.ErrTokenInvalid):
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Verification unsuccessful, invalid token")
	case errors.Is(err, repository.ErrNotFound):
		return utils.ResponseError(ctx, fiber.StatusNotFound, "User account does not exist")
	default:
		return respondServiceError(ctx, err)
	}
}

// GoogleLogin sends the browser to Google's consent page. The CSRF state
// rides in a short-lived cookie and is checked on the way back.
func (h *AuthHandler) GoogleLogin(ctx *fiber.Ctx) error {
	if h.google == nil {
		return utils.ResponseError(ctx, fiber.StatusServiceUnavailable, "social login is not configured")
	}

	state, err := randomState()
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, genericErrorMessage)
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return ctx.Redirect(h.google.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

func (h *AuthHandler) GoogleCallback(ctx *fiber.Ctx) error {
	if h.google == nil {
		return utils.ResponseError(ctx, fiber.StatusServiceUnavailable, "social login is not configured")
	}

	state := ctx.Query("state")
	if state == "" || state != ctx.Cookies(stateCookieName) {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid oauth state")
	}
	ctx.Cookie(&fiber.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})

	code := ctx.Query("code")
	if code == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "missing authorization code")
	}

	identity, err := h.google.FetchIdentity(ctx.UserContext(), code)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "Google login failed")
	}

	user, err := h.svc.SocialLogin(ctx.UserContext(), dto.SocialIdentity{
		Provider:  "google",
		Subject:   identity.Subject,
		Email:     identity.Email,
		Verified:  identity.VerifiedEmail,
		FirstName: identity.GivenName,
		LastName:  identity.FamilyName,
	})
	if err != nil {
		return respondServiceError(ctx, err)
	}

	setAuthCookie(ctx, user.Token)
	return utils.ResponseSuccess(ctx, fiber.StatusOK, user)
}

func (h *AuthHandler) Me(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.svc.CurrentUser(ctx.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.ResponseError(ctx, fiber.StatusNotFound, "User account does not exist")
		}
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, genericErrorMessage)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, user)
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
