package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/RoveStack/travel_service/internal/domain"
	"github.com/RoveStack/travel_service/internal/logger"
)

type TripRepository interface {
	CreateTrip(ctx context.Context, trip *domain.TripRequest) (*domain.TripRequest, error)
	FindTripByID(ctx context.Context, tripID uint) (*domain.TripRequest, error)
	ListTripsByUser(ctx context.Context, userID uint, limit, offset int) ([]domain.TripRequest, error)
	ListTripsByStatus(ctx context.Context, status string, limit, offset int) ([]domain.TripRequest, error)
	// UpdateTripStatus applies fields only when the trip is still in
	// fromStatus and reports how many rows changed. Zero rows means the
	// transition lost the race or was never legal.
	UpdateTripStatus(ctx context.Context, tripID uint, fromStatus string, fields map[string]interface{}) (int64, error)
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) CreateTrip(ctx context.Context, trip *domain.TripRequest) (*domain.TripRequest, error) {
	if trip == nil {
		return nil, errors.New("nil trip")
	}

	if err := r.db.WithContext(ctx).Create(trip).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		logger.FromContext(ctx).Error().Err(err).Msg("create trip failed")
		return nil, fmt.Errorf("create trip: %w", err)
	}

	return trip, nil
}

func (r *tripRepository) FindTripByID(ctx context.Context, tripID uint) (*domain.TripRequest, error) {
	trip := &domain.TripRequest{}

	if err := r.db.WithContext(ctx).First(trip, tripID).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		logger.FromContext(ctx).Error().Err(err).Msg("find trip failed")
		return nil, fmt.Errorf("find trip: %w", err)
	}

	return trip, nil
}

func (r *tripRepository) ListTripsByUser(ctx context.Context, userID uint, limit, offset int) ([]domain.TripRequest, error) {
	var trips []domain.TripRequest

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(limit).
		Offset(offset).
		Order("id DESC").
		Find(&trips).Error
	if err != nil {
		logger.FromContext(ctx).Error().Err(err).Msg("list trips by user failed")
		return nil, fmt.Errorf("list trips by user: %w", err)
	}

	return trips, nil
}

func (r *tripRepository) ListTripsByStatus(ctx context.Context, status string, limit, offset int) ([]domain.TripRequest, error) {
	var trips []domain.TripRequest

	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Limit(limit).
		Offset(offset).
		Order("id").
		Find(&trips).Error
	if err != nil {
		logger.FromContext(ctx).Error().Err(err).Msg("list trips by status failed")
		return nil, fmt.Errorf("list trips by status: %w", err)
	}

	return trips, nil
}

func (r *tripRepository) UpdateTripStatus(ctx context.Context, tripID uint, fromStatus string, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.TripRequest{}).
		Where("id = ? AND status = ?", tripID, fromStatus).
		Updates(fields)
	if res.Error != nil {
		logger.FromContext(ctx).Error().Err(res.Error).Msg("update trip status failed")
		return 0, fmt.Errorf("update trip status: %w", res.Error)
	}

	return res.RowsAffected, nil
}
