package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/RoveStack/travel_service/internal/domain"
	"github.com/RoveStack/travel_service/internal/dto"
	"github.com/RoveStack/travel_service/internal/helper"
	"github.com/RoveStack/travel_service/internal/helper/utils"
	"github.com/RoveStack/travel_service/internal/services"
)

type TripHandler struct {
	svc  services.TripService
	auth helper.Auth
}

func NewTripHandler(svc services.TripService, auth helper.Auth) *TripHandler {
	return &TripHandler{svc: svc, auth: auth}
}

func (h *TripHandler) SetupRoutes(app *fiber.App, authRequired, adminOnly fiber.Handler) {
	api := app.Group("/api")

	// =========================
	// TRIP REQUESTS
	// =========================
	trip := api.Group("/trip", authRequired)

	trip.Post("/", h.Create)
	trip.Get("/", h.ListMine)
	trip.Get("/pending", adminOnly, h.ListPending)
	trip.Get("/:tripID", h.Get)
	trip.Post("/:tripID/cancel", h.Cancel)
	trip.Post("/:tripID/approve", adminOnly, h.Approve)
	trip.Post("/:tripID/reject", adminOnly, h.Reject)
}

func (h *TripHandler) Create(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var requestBody dto.CreateTripRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	trip, err := h.svc.CreateTrip(ctx.UserContext(), claims.UserID, requestBody)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, trip)
}

func (h *TripHandler) ListMine(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	trips, err := h.svc.ListMyTrips(ctx.UserContext(), claims.UserID, ctx.QueryInt("limit"), ctx.QueryInt("offset"))
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, trips)
}

func (h *TripHandler) ListPending(ctx *fiber.Ctx) error {
	trips, err := h.svc.ListPendingTrips(ctx.UserContext(), ctx.QueryInt("limit"), ctx.QueryInt("offset"))
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, trips)
}

func (h *TripHandler) Get(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	tripID, err := ctx.ParamsInt("tripID")
	if err != nil || tripID < 1 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	trip, err := h.svc.GetTrip(ctx.UserContext(), uint(tripID), claims.UserID, claims.Role == domain.RoleAdmin)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, trip)
}

func (h *TripHandler) Cancel(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	tripID, err := ctx.ParamsInt("tripID")
	if err != nil || tripID < 1 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	trip, err := h.svc.CancelTrip(ctx.UserContext(), uint(tripID), claims.UserID)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, trip)
}

func (h *TripHandler) Approve(ctx *fiber.Ctx) error {
	return h.decide(ctx, h.svc.ApproveTrip)
}

func (h *TripHandler) Reject(ctx *fiber.Ctx) error {
	return h.decide(ctx, h.svc.RejectTrip)
}

func (h *TripHandler) decide(ctx *fiber.Ctx, fn func(context.Context, uint, uint, string) (*domain.TripRequest, error)) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	tripID, err := ctx.ParamsInt("tripID")
	if err != nil || tripID < 1 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	// note body is optional
	var requestBody dto.TripDecisionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&requestBody); err != nil {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
		}
	}

	trip, err := fn(ctx.UserContext(), uint(tripID), claims.UserID, requestBody.Note)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, trip)
}
