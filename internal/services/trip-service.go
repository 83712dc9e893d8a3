package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RoveStack/travel_service/internal/domain"
	"github.com/RoveStack/travel_service/internal/dto"
	"github.com/RoveStack/travel_service/internal/helper"
	"github.com/RoveStack/travel_service/internal/repository"
)

type TripService interface {
	CreateTrip(ctx context.Context, userID uint, input dto.CreateTripRequest) (*domain.TripRequest, error)
	GetTrip(ctx context.Context, tripID, requesterID uint, isAdmin bool) (*domain.TripRequest, error)
	ListMyTrips(ctx context.Context, userID uint, limit, offset int) ([]domain.TripRequest, error)
	ListPendingTrips(ctx context.Context, limit, offset int) ([]domain.TripRequest, error)
	CancelTrip(ctx context.Context, tripID, userID uint) (*domain.TripRequest, error)
	ApproveTrip(ctx context.Context, tripID, adminID uint, note string) (*domain.TripRequest, error)
	RejectTrip(ctx context.Context, tripID, adminID uint, note string) (*domain.TripRequest, error)
}

type tripService struct {
	repo         repository.TripRepository
	userRepo     repository.UserRepository
	facilityRepo repository.FacilityRepository
}

func NewTripService(repo repository.TripRepository, userRepo repository.UserRepository, facilityRepo repository.FacilityRepository) TripService {
	return &tripService{
		repo:         repo,
		userRepo:     userRepo,
		facilityRepo: facilityRepo,
	}
}

func (s *tripService) CreateTrip(ctx context.Context, userID uint, input dto.CreateTripRequest) (*domain.TripRequest, error) {
	origin := strings.TrimSpace(input.Origin)
	destination := strings.TrimSpace(input.Destination)

	if origin == "" || destination == "" || input.DepartDate.IsZero() {
		return nil, helper.NewApiError(http.StatusBadRequest, "Please provide valid inputs")
	}
	if !input.DepartDate.After(time.Now()) {
		return nil, helper.NewApiError(http.StatusBadRequest, "depart date must be in the future")
	}
	if input.ReturnDate != nil && !input.ReturnDate.After(input.DepartDate) {
		return nil, helper.NewApiError(http.StatusBadRequest, "return date must be after the depart date")
	}

	if input.FacilityID != nil {
		if _, err := s.facilityRepo.FindFacilityByID(ctx, *input.FacilityID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, helper.NewApiError(http.StatusBadRequest, "requested facility does not exist")
			}
			return nil, err
		}
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.repo.CreateTrip(ctx, &domain.TripRequest{
		Reference:   uuid.NewString(),
		UserID:      user.ID,
		CompanyID:   user.CompanyID,
		FacilityID:  input.FacilityID,
		Origin:      origin,
		Destination: destination,
		Purpose:     strings.TrimSpace(input.Purpose),
		DepartDate:  input.DepartDate,
		ReturnDate:  input.ReturnDate,
		Status:      domain.TripStatusPending,
	})
}

func (s *tripService) GetTrip(ctx context.Context, tripID, requesterID uint, isAdmin bool) (*domain.TripRequest, error) {
	trip, err := s.repo.FindTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && trip.UserID != requesterID {
		return nil, helper.NewApiError(http.StatusForbidden, "You are not allowed to perform this action")
	}
	return trip, nil
}

func (s *tripService) ListMyTrips(ctx context.Context, userID uint, limit, offset int) ([]domain.TripRequest, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.ListTripsByUser(ctx, userID, limit, offset)
}

func (s *tripService) ListPendingTrips(ctx context.Context, limit, offset int) ([]domain.TripRequest, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.ListTripsByStatus(ctx, domain.TripStatusPending, limit, offset)
}

// CancelTrip lets the owner withdraw a request that nobody has decided yet.
func (s *tripService) CancelTrip(ctx context.Context, tripID, userID uint) (*domain.TripRequest, error) {
	trip, err := s.repo.FindTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.UserID != userID {
		return nil, helper.NewApiError(http.StatusForbidden, "You are not allowed to perform this action")
	}

	return s.transition(ctx, tripID, map[string]interface{}{
		"status": domain.TripStatusCancelled,
	})
}

func (s *tripService) ApproveTrip(ctx context.Context, tripID, adminID uint, note string) (*domain.TripRequest, error) {
	return s.decide(ctx, tripID, adminID, domain.TripStatusApproved, note)
}

func (s *tripService) RejectTrip(ctx context.Context, tripID, adminID uint, note string) (*domain.TripRequest, error) {
	return s.decide(ctx, tripID, adminID, domain.TripStatusRejected, note)
}

func (s *tripService) decide(ctx context.Context, tripID, adminID uint, status, note string) (*domain.TripRequest, error) {
	if _, err := s.repo.FindTripByID(ctx, tripID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"status":      status,
		"approver_id": adminID,
		"decided_at":  time.Now(),
	}
	if note = strings.TrimSpace(note); note != "" {
		fields["decision_note"] = note
	}

	return s.transition(ctx, tripID, fields)
}

// transition applies a status change guarded on the trip still being pending.
// Losing the guard means someone else decided first.
func (s *tripService) transition(ctx context.Context, tripID uint, fields map[string]interface{}) (*domain.TripRequest, error) {
	rows, err := s.repo.UpdateTripStatus(ctx, tripID, domain.TripStatusPending, fields)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrTripNotPending
	}

	return s.repo.FindTripByID(ctx, tripID)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
