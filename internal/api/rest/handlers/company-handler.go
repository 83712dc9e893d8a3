package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/RoveStack/travel_service/internal/dto"
	"github.com/RoveStack/travel_service/internal/helper"
	"github.com/RoveStack/travel_service/internal/helper/utils"
	"github.com/RoveStack/travel_service/internal/services"
)

type CompanyHandler struct {
	svc  services.CompanyService
	auth helper.Auth
}

func NewCompanyHandler(svc services.CompanyService, auth helper.Auth) *CompanyHandler {
	return &CompanyHandler{svc: svc, auth: auth}
}

func (h *CompanyHandler) SetupRoutes(app *fiber.App, authRequired fiber.Handler) {
	api := app.Group("/api")

	// =========================
	// COMPANY
	// =========================
	company := api.Group("/company")

	company.Post("/signup", h.SignUp)
	company.Get("/me", authRequired, h.MyCompany)
	company.Put("/me", authRequired, h.UpdateMyCompany)
}

func (h *CompanyHandler) SignUp(ctx *fiber.Ctx) error {
	var requestBody dto.CompanySignUpRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	resp, err := h.svc.SignUp(ctx.UserContext(), requestBody)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	setAuthCookie(ctx, resp.User.Token)
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, resp)
}

func (h *CompanyHandler) MyCompany(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	company, err := h.svc.GetMyCompany(ctx.UserContext(), claims.UserID)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, company)
}

func (h *CompanyHandler) UpdateMyCompany(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var requestBody dto.UpdateCompanyRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	company, err := h.svc.UpdateMyCompany(ctx.UserContext(), claims.UserID, requestBody)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, company)
}
