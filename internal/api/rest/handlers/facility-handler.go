package handlers

import (
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/RoveStack/travel_service/internal/dto"
	"github.com/RoveStack/travel_service/internal/helper/utils"
	"github.com/RoveStack/travel_service/internal/services"
	pkgutils "github.com/RoveStack/travel_service/pkg/utils"
)

// 5MB
const maxImageSize = 5 * 1024 * 1024

var allowedImageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

type FacilityHandler struct {
	svc services.FacilityService
}

func NewFacilityHandler(svc services.FacilityService) *FacilityHandler {
	return &FacilityHandler{svc: svc}
}

func (h *FacilityHandler) SetupRoutes(app *fiber.App, authRequired, adminOnly fiber.Handler) {
	api := app.Group("/api")

	// =========================
	// FACILITY
	// =========================
	facility := api.Group("/facility", authRequired)

	facility.Get("/", h.List)
	facility.Post("/", adminOnly, h.Create)
	facility.Put("/rooms/:roomID", adminOnly, h.UpdateRoom)
	facility.Delete("/rooms/:roomID", adminOnly, h.DeleteRoom)
	facility.Delete("/amenities/:amenityID", adminOnly, h.DeleteAmenity)
	facility.Get("/:facilityID", h.Get)
	facility.Put("/:facilityID", adminOnly, h.Update)
	facility.Delete("/:facilityID", adminOnly, h.Delete)
	facility.Post("/:facilityID/image", adminOnly, h.UploadImage)
	facility.Post("/:facilityID/rooms", adminOnly, h.AddRoom)
	facility.Post("/:facilityID/amenities", adminOnly, h.AddAmenity)
}

func (h *FacilityHandler) Create(ctx *fiber.Ctx) error {
	var requestBody dto.CreateFacilityRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	facility, err := h.svc.CreateFacility(ctx.UserContext(), requestBody)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, facility)
}

func (h *FacilityHandler) List(ctx *fiber.Ctx) error {
	facilities, err := h.svc.ListFacilities(ctx.UserContext(), ctx.QueryInt("limit"), ctx.QueryInt("offset"))
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, facilities)
}

func (h *FacilityHandler) Get(ctx *fiber.Ctx) error {
	facilityID, err := ctx.ParamsInt("facilityID")
	if err != nil || facilityID < 1 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	facility, err := h.svc.GetFacility(ctx.UserContext(), uint(facilityID))
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, facility)
}

func (h *FacilityHandler) Update(ctx *fiber.Ctx) error {
	facilityID, err := ctx.ParamsInt("facilityID")
	if err != nil || facilityID < 1 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	var requestBody dto.UpdateFacilityRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	facility, err := h.svc.UpdateFacility(ctx.UserContext(), uint(facilityID), requestBody)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, facility)
}

func (h *FacilityHandler) Delete(ctx *fiber.Ctx) error {
	facilityID, err := ctx.ParamsInt("facilityID")
	if err != nil || facilityID < 1 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	if err := h.svc.DeleteFacility(ctx.UserContext(), uint(facilityID)); err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Facility deleted")
}

// POST /api/facility/:facilityID/image
// form-data: file=<image>
func (h *FacilityHandler) UploadImage(ctx *fiber.Ctx) error {
	facilityID, err := ctx.ParamsInt("facilityID")
	if err != nil || facilityID < 1 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "file is required")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "only jpg/jpeg/png/webp allowed")
	}
	if file.Size > maxImageSize {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "file too large (max 5MB)")
	}

	f, err := file.Open()
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, genericErrorMessage)
	}
	defer f.Close()

	data, err := pkgutils.ReadAllLimit(f, maxImageSize)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "file too large (max 5MB)")
	}

	facility, err := h.svc.AttachImage(ctx.UserContext(), uint(facilityID), file.Filename, data)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, facility)
}

func (h *FacilityHandler) AddRoom(ctx *fiber.Ctx) error {
	facilityID, err := ctx.ParamsInt("facilityID")
	if err != nil || facilityID < 1 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	var requestBody dto.RoomInput
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	room, err := h.svc.AddRoom(ctx.UserContext(), uint(facilityID), requestBody)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, room)
}

func (h *FacilityHandler) UpdateRoom(ctx *fiber.Ctx) error {
	roomID, err := ctx.ParamsInt("roomID")
	if err != nil || roomID < 1 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	var requestBody dto.RoomInput
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	room, err := h.svc.UpdateRoom(ctx.UserContext(), uint(roomID), requestBody)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, room)
}

func (h *FacilityHandler) DeleteRoom(ctx *fiber.Ctx) error {
	roomID, err := ctx.ParamsInt("roomID")
	if err != nil || roomID < 1 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	if err := h.svc.DeleteRoom(ctx.UserContext(), uint(roomID)); err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Room deleted")
}

func (h *FacilityHandler) AddAmenity(ctx *fiber.Ctx) error {
	facilityID, err := ctx.ParamsInt("facilityID")
	if err != nil || facilityID < 1 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	var requestBody dto.AddAmenityRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	amenity, err := h.svc.AddAmenity(ctx.UserContext(), uint(facilityID), requestBody)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, amenity)
}

func (h *FacilityHandler) DeleteAmenity(ctx *fiber.Ctx) error {
	amenityID, err := ctx.ParamsInt("amenityID")
	if err != nil || amenityID < 1 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	if err := h.svc.DeleteAmenity(ctx.UserContext(), uint(amenityID)); err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Amenity deleted")
}
