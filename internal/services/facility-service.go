package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/RoveStack/travel_service/internal/domain"
	"github.com/RoveStack/travel_service/internal/dto"
	"github.com/RoveStack/travel_service/internal/helper"
	"github.com/RoveStack/travel_service/internal/interfaces"
	"github.com/RoveStack/travel_service/internal/repository"
	"github.com/RoveStack/travel_service/pkg/imageutil"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100

	maxImageWidth = 1600
	imageQuality  = 85
)

type FacilityService interface {
	CreateFacility(ctx context.Context, input dto.CreateFacilityRequest) (*domain.Facility, error)
	GetFacility(ctx context.Context, facilityID uint) (*domain.Facility, error)
	ListFacilities(ctx context.Context, limit, offset int) ([]domain.Facility, error)
	UpdateFacility(ctx context.Context, facilityID uint, input dto.UpdateFacilityRequest) (*domain.Facility, error)
	DeleteFacility(ctx context.Context, facilityID uint) error
	AttachImage(ctx context.Context, facilityID uint, filename string, data []byte) (*domain.Facility, error)
	AddRoom(ctx context.Context, facilityID uint, input dto.RoomInput) (*domain.Room, error)
	UpdateRoom(ctx context.Context, roomID uint, input dto.RoomInput) (*domain.Room, error)
	DeleteRoom(ctx context.Context, roomID uint) error
	AddAmenity(ctx context.Context, facilityID uint, input dto.AddAmenityRequest) (*domain.Amenity, error)
	DeleteAmenity(ctx context.Context, amenityID uint) error
}

type facilityService struct {
	repo     repository.FacilityRepository
	uploader interfaces.Uploader
}

func NewFacilityService(repo repository.FacilityRepository, uploader interfaces.Uploader) FacilityService {
	return &facilityService{
		repo:     repo,
		uploader: uploader,
	}
}

func (s *facilityService) CreateFacility(ctx context.Context, input dto.CreateFacilityRequest) (*domain.Facility, error) {
	name := strings.TrimSpace(input.Name)
	location := strings.TrimSpace(input.Location)
	if name == "" || location == "" {
		return nil, helper.NewApiError(http.StatusBadRequest, "Please provide valid inputs")
	}

	facility := &domain.Facility{
		Name:        name,
		Location:    location,
		Description: strings.TrimSpace(input.Description),
	}
	for _, room := range input.Rooms {
		if strings.TrimSpace(room.Name) == "" || room.Capacity < 1 {
			return nil, helper.NewApiError(http.StatusBadRequest, "room needs a name and a positive capacity")
		}
		facility.Rooms = append(facility.Rooms, domain.Room{
			Name:          strings.TrimSpace(room.Name),
			Capacity:      room.Capacity,
			PricePerNight: room.PricePerNight,
		})
	}
	for _, amenity := range input.Amenities {
		if strings.TrimSpace(amenity) == "" {
			continue
		}
		facility.Amenities = append(facility.Amenities, domain.Amenity{Name: strings.TrimSpace(amenity)})
	}

	created, err := s.repo.CreateFacility(ctx, facility)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, helper.NewApiError(http.StatusConflict, "facility name already exists")
		}
		return nil, err
	}
	return created, nil
}

func (s *facilityService) GetFacility(ctx context.Context, facilityID uint) (*domain.Facility, error) {
	return s.repo.FindFacilityByID(ctx, facilityID)
}

func (s *facilityService) ListFacilities(ctx context.Context, limit, offset int) ([]domain.Facility, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.ListFacilities(ctx, limit, offset)
}

func (s *facilityService) UpdateFacility(ctx context.Context, facilityID uint, input dto.UpdateFacilityRequest) (*domain.Facility, error) {
	fields := map[string]interface{}{}
	if name := strings.TrimSpace(input.Name); name != "" {
		fields["name"] = name
	}
	if location := strings.TrimSpace(input.Location); location != "" {
		fields["location"] = location
	}
	if description := strings.TrimSpace(input.Description); description != "" {
		fields["description"] = description
	}
	if len(fields) == 0 {
		return nil, helper.NewApiError(http.StatusBadRequest, "Please provide valid inputs")
	}

	facility, err := s.repo.UpdateFacilityByID(ctx, facilityID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, helper.NewApiError(http.StatusConflict, "facility name already exists")
		}
		return nil, err
	}
	return facility, nil
}

func (s *facilityService) DeleteFacility(ctx context.Context, facilityID uint) error {
	return s.repo.DeleteFacility(ctx, facilityID)
}

// AttachImage stores the normalized picture and records the returned URL on
// the facility. Whatever arrives goes out as JPEG.
func (s *facilityService) AttachImage(ctx context.Context, facilityID uint, filename string, data []byte) (*domain.Facility, error) {
	if s.uploader == nil {
		return nil, helper.NewApiError(http.StatusServiceUnavailable, "image uploads are not configured")
	}
	if len(data) == 0 {
		return nil, helper.NewApiError(http.StatusBadRequest, "empty image upload")
	}

	if _, err := s.repo.FindFacilityByID(ctx, facilityID); err != nil {
		return nil, err
	}

	normalized, err := imageutil.NormalizeJPEG(data, maxImageWidth, imageQuality)
	if err != nil {
		return nil, helper.NewApiError(http.StatusBadRequest, err.Error())
	}
	name := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"

	url, err := s.uploader.UploadBytes(ctx, "facilities", name, normalized)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	return s.repo.UpdateFacilityByID(ctx, facilityID, map[string]interface{}{"image_url": url})
}

func (s *facilityService) AddRoom(ctx context.Context, facilityID uint, input dto.RoomInput) (*domain.Room, error) {
	if strings.TrimSpace(input.Name) == "" || input.Capacity < 1 {
		return nil, helper.NewApiError(http.StatusBadRequest, "room needs a name and a positive capacity")
	}

	if _, err := s.repo.FindFacilityByID(ctx, facilityID); err != nil {
		return nil, err
	}

	return s.repo.AddRoom(ctx, &domain.Room{
		FacilityID:    facilityID,
		Name:          strings.TrimSpace(input.Name),
		Capacity:      input.Capacity,
		PricePerNight: input.PricePerNight,
	})
}

func (s *facilityService) UpdateRoom(ctx context.Context, roomID uint, input dto.RoomInput) (*domain.Room, error) {
	fields := map[string]interface{}{}
	if name := strings.TrimSpace(input.Name); name != "" {
		fields["name"] = name
	}
	if input.Capacity > 0 {
		fields["capacity"] = input.Capacity
	}
	if input.PricePerNight > 0 {
		fields["price_per_night"] = input.PricePerNight
	}
	if len(fields) == 0 {
		return nil, helper.NewApiError(http.StatusBadRequest, "Please provide valid inputs")
	}

	return s.repo.UpdateRoomByID(ctx, roomID, fields)
}

func (s *facilityService) DeleteRoom(ctx context.Context, roomID uint) error {
	return s.repo.DeleteRoom(ctx, roomID)
}

func (s *facilityService) AddAmenity(ctx context.Context, facilityID uint, input dto.AddAmenityRequest) (*domain.Amenity, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, helper.NewApiError(http.StatusBadRequest, "Please provide valid inputs")
	}

	if _, err := s.repo.FindFacilityByID(ctx, facilityID); err != nil {
		return nil, err
	}

	return s.repo.AddAmenity(ctx, &domain.Amenity{
		FacilityID: facilityID,
		Name:       strings.TrimSpace(input.Name),
	})
}

func (s *facilityService) DeleteAmenity(ctx context.Context, amenityID uint) error {
	return s.repo.DeleteAmenity(ctx, amenityID)
}
