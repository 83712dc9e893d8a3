package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/RoveStack/travel_service/internal/domain"
	"github.com/RoveStack/travel_service/internal/logger"
)

type FacilityRepository interface {
	// CreateFacility persists the facility together with its rooms and
	// amenities; a failure on any row rolls the whole thing back.
	CreateFacility(ctx context.Context, facility *domain.Facility) (*domain.Facility, error)
	FindFacilityByID(ctx context.Context, facilityID uint) (*domain.Facility, error)
	ListFacilities(ctx context.Context, limit, offset int) ([]domain.Facility, error)
	UpdateFacilityByID(ctx context.Context, facilityID uint, fields map[string]interface{}) (*domain.Facility, error)
	DeleteFacility(ctx context.Context, facilityID uint) error
	AddRoom(ctx context.Context, room *domain.Room) (*domain.Room, error)
	UpdateRoomByID(ctx context.Context, roomID uint, fields map[string]interface{}) (*domain.Room, error)
	DeleteRoom(ctx context.Context, roomID uint) error
	AddAmenity(ctx context.Context, amenity *domain.Amenity) (*domain.Amenity, error)
	DeleteAmenity(ctx context.Context, amenityID uint) error
}

type facilityRepository struct {
	db *gorm.DB
}

func NewFacilityRepository(db *gorm.DB) FacilityRepository {
	return &facilityRepository{db: db}
}

func (r *facilityRepository) CreateFacility(ctx context.Context, facility *domain.Facility) (*domain.Facility, error) {
	if facility == nil {
		return nil, errors.New("nil facility")
	}

	rooms := facility.Rooms
	amenities := facility.Amenities
	facility.Rooms = nil
	facility.Amenities = nil

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(facility).Error; err != nil {
			return err
		}
		for i := range rooms {
			rooms[i].FacilityID = facility.ID
			if err := tx.Create(&rooms[i]).Error; err != nil {
				return err
			}
		}
		for i := range amenities {
			amenities[i].FacilityID = facility.ID
			if err := tx.Create(&amenities[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		logger.FromContext(ctx).Error().Err(err).Msg("create facility failed")
		return nil, fmt.Errorf("create facility: %w", err)
	}

	facility.Rooms = rooms
	facility.Amenities = amenities
	return facility, nil
}

func (r *facilityRepository) FindFacilityByID(ctx context.Context, facilityID uint) (*domain.Facility, error) {
	facility := &domain.Facility{}

	err := r.db.WithContext(ctx).
		Preload("Rooms").
		Preload("Amenities").
		First(facility, facilityID).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		logger.FromContext(ctx).Error().Err(err).Msg("find facility failed")
		return nil, fmt.Errorf("find facility: %w", err)
	}

	return facility, nil
}

func (r *facilityRepository) ListFacilities(ctx context.Context, limit, offset int) ([]domain.Facility, error) {
	var facilities []domain.Facility

	err := r.db.WithContext(ctx).
		Limit(limit).
		Offset(offset).
		Order("id").
		Find(&facilities).Error
	if err != nil {
		logger.FromContext(ctx).Error().Err(err).Msg("list facilities failed")
		return nil, fmt.Errorf("list facilities: %w", err)
	}

	return facilities, nil
}

func (r *facilityRepository) UpdateFacilityByID(ctx context.Context, facilityID uint, fields map[string]interface{}) (*domain.Facility, error) {
	res := r.db.WithContext(ctx).Model(&domain.Facility{}).Where("id = ?", facilityID).Updates(fields)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return nil, ErrDuplicate
		}
		logger.FromContext(ctx).Error().Err(res.Error).Msg("update facility failed")
		return nil, fmt.Errorf("update facility: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return r.FindFacilityByID(ctx, facilityID)
}

func (r *facilityRepository) DeleteFacility(ctx context.Context, facilityID uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Facility{}, facilityID)
	if res.Error != nil {
		logger.FromContext(ctx).Error().Err(res.Error).Msg("delete facility failed")
		return fmt.Errorf("delete facility: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *facilityRepository) AddRoom(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	if room == nil {
		return nil, errors.New("nil room")
	}

	if err := r.db.WithContext(ctx).Create(room).Error; err != nil {
		logger.FromContext(ctx).Error().Err(err).Msg("add room failed")
		return nil, fmt.Errorf("add room: %w", err)
	}

	return room, nil
}

func (r *facilityRepository) UpdateRoomByID(ctx context.Context, roomID uint, fields map[string]interface{}) (*domain.Room, error) {
	res := r.db.WithContext(ctx).Model(&domain.Room{}).Where("id = ?", roomID).Updates(fields)
	if res.Error != nil {
		logger.FromContext(ctx).Error().Err(res.Error).Msg("update room failed")
		return nil, fmt.Errorf("update room: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	room := &domain.Room{}
	if err := r.db.WithContext(ctx).First(room, roomID).Error; err != nil {
		return nil, fmt.Errorf("find room: %w", err)
	}
	return room, nil
}

func (r *facilityRepository) DeleteRoom(ctx context.Context, roomID uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Room{}, roomID)
	if res.Error != nil {
		logger.FromContext(ctx).Error().Err(res.Error).Msg("delete room failed")
		return fmt.Errorf("delete room: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *facilityRepository) AddAmenity(ctx context.Context, amenity *domain.Amenity) (*domain.Amenity, error) {
	if amenity == nil {
		return nil, errors.New("nil amenity")
	}

	if err := r.db.WithContext(ctx).Create(amenity).Error; err != nil {
		logger.FromContext(ctx).Error().Err(err).Msg("add amenity failed")
		return nil, fmt.Errorf("add amenity: %w", err)
	}

	return amenity, nil
}

func (r *facilityRepository) DeleteAmenity(ctx context.Context, amenityID uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Amenity{}, amenityID)
	if res.Error != nil {
		logger.FromContext(ctx).Error().Err(res.Error).Msg("delete amenity failed")
		return fmt.Errorf("delete amenity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
