package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RoveStack/travel_service/internal/domain"
	"github.com/RoveStack/travel_service/internal/dto"
	"github.com/RoveStack/travel_service/internal/helper"
	"github.com/RoveStack/travel_service/internal/repository"
)

// mockTripRepo implements repository.TripRepository with per-test overrides.
type mockTripRepo struct {
	t                  *testing.T
	createTripFn       func(ctx context.Context, trip *domain.TripRequest) (*domain.TripRequest, error)
	findTripByIDFn     func(ctx context.Context, tripID uint) (*domain.TripRequest, error)
	listTripsByUserFn  func(ctx context.Context, userID uint, limit, offset int) ([]domain.TripRequest, error)
	listByStatusFn     func(ctx context.Context, status string, limit, offset int) ([]domain.TripRequest, error)
	updateTripStatusFn func(ctx context.Context, tripID uint, fromStatus string, fields map[string]interface{}) (int64, error)
}

func (m *mockTripRepo) CreateTrip(ctx context.Context, trip *domain.TripRequest) (*domain.TripRequest, error) {
	if m.createTripFn == nil {
		m.t.Fatal("unexpected CreateTrip call")
	}
	return m.createTripFn(ctx, trip)
}

func (m *mockTripRepo) FindTripByID(ctx context.Context, tripID uint) (*domain.TripRequest, error) {
	if m.findTripByIDFn == nil {
		m.t.Fatal("unexpected FindTripByID call")
	}
	return m.findTripByIDFn(ctx, tripID)
}

func (m *mockTripRepo) ListTripsByUser(ctx context.Context, userID uint, limit, offset int) ([]domain.TripRequest, error) {
	if m.listTripsByUserFn == nil {
		m.t.Fatal("unexpected ListTripsByUser call")
	}
	return m.listTripsByUserFn(ctx, userID, limit, offset)
}

func (m *mockTripRepo) ListTripsByStatus(ctx context.Context, status string, limit, offset int) ([]domain.TripRequest, error) {
	if m.listByStatusFn == nil {
		m.t.Fatal("unexpected ListTripsByStatus call")
	}
	return m.listByStatusFn(ctx, status, limit, offset)
}

func (m *mockTripRepo) UpdateTripStatus(ctx context.Context, tripID uint, fromStatus string, fields map[string]interface{}) (int64, error) {
	if m.updateTripStatusFn == nil {
		m.t.Fatal("unexpected UpdateTripStatus call")
	}
	return m.updateTripStatusFn(ctx, tripID, fromStatus, fields)
}

func newTestTripService(trips *mockTripRepo, users *mockUserRepo, facilities *mockFacilityRepo) TripService {
	return NewTripService(trips, users, facilities)
}

func validTripInput() dto.CreateTripRequest {
	return dto.CreateTripRequest{
		Origin:      "Berlin",
		Destination: "Lisbon",
		Purpose:     "conference",
		DepartDate:  time.Now().Add(48 * time.Hour),
	}
}

func TestCreateTrip_Success(t *testing.T) {
	companyID := uint(3)
	users := &mockUserRepo{t: t}
	users.findUserByIDFn = func(_ context.Context, userID uint) (*domain.User, error) {
		return &domain.User{ID: userID, CompanyID: &companyID}, nil
	}
	trips := &mockTripRepo{t: t}
	trips.createTripFn = func(_ context.Context, trip *domain.TripRequest) (*domain.TripRequest, error) {
		assert.Equal(t, uint(7), trip.UserID)
		assert.Equal(t, &companyID, trip.CompanyID)
		assert.Equal(t, domain.TripStatusPending, trip.Status)
		_, err := uuid.Parse(trip.Reference)
		assert.NoError(t, err, "reference must be a uuid")

		trip.ID = 11
		return trip, nil
	}

	trip, err := newTestTripService(trips, users, &mockFacilityRepo{t: t}).
		CreateTrip(context.Background(), 7, validTripInput())
	require.NoError(t, err)
	assert.Equal(t, uint(11), trip.ID)
}

func TestCreateTrip_Validation(t *testing.T) {
	svc := newTestTripService(&mockTripRepo{t: t}, &mockUserRepo{t: t}, &mockFacilityRepo{t: t})
	var apiErr *helper.ApiError

	_, err := svc.CreateTrip(context.Background(), 7, dto.CreateTripRequest{Destination: "Lisbon"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	past := validTripInput()
	past.DepartDate = time.Now().Add(-time.Hour)
	_, err = svc.CreateTrip(context.Background(), 7, past)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "depart date must be in the future", apiErr.Message)

	backwards := validTripInput()
	ret := backwards.DepartDate.Add(-time.Hour)
	backwards.ReturnDate = &ret
	_, err = svc.CreateTrip(context.Background(), 7, backwards)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "return date must be after the depart date", apiErr.Message)
}

func TestCreateTrip_MissingFacility(t *testing.T) {
	facilities := &mockFacilityRepo{t: t}
	facilities.findFacilityByIDFn = func(context.Context, uint) (*domain.Facility, error) {
		return nil, repository.ErrNotFound
	}

	input := validTripInput()
	facilityID := uint(99)
	input.FacilityID = &facilityID

	_, err := newTestTripService(&mockTripRepo{t: t}, &mockUserRepo{t: t}, facilities).
		CreateTrip(context.Background(), 7, input)
	var apiErr *helper.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "requested facility does not exist", apiErr.Message)
}

func TestGetTrip_Ownership(t *testing.T) {
	trips := &mockTripRepo{t: t}
	trips.findTripByIDFn = func(_ context.Context, tripID uint) (*domain.TripRequest, error) {
		return &domain.TripRequest{ID: tripID, UserID: 7, Status: domain.TripStatusPending}, nil
	}
	svc := newTestTripService(trips, &mockUserRepo{t: t}, &mockFacilityRepo{t: t})

	_, err := svc.GetTrip(context.Background(), 11, 7, false)
	assert.NoError(t, err)

	_, err = svc.GetTrip(context.Background(), 11, 8, false)
	var apiErr *helper.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)

	_, err = svc.GetTrip(context.Background(), 11, 8, true)
	assert.NoError(t, err)
}

func TestCancelTrip(t *testing.T) {
	trips := &mockTripRepo{t: t}
	status := domain.TripStatusPending
	trips.findTripByIDFn = func(_ context.Context, tripID uint) (*domain.TripRequest, error) {
		return &domain.TripRequest{ID: tripID, UserID: 7, Status: status}, nil
	}
	trips.updateTripStatusFn = func(_ context.Context, tripID uint, fromStatus string, fields map[string]interface{}) (int64, error) {
		assert.Equal(t, domain.TripStatusPending, fromStatus)
		assert.Equal(t, domain.TripStatusCancelled, fields["status"])
		status = domain.TripStatusCancelled
		return 1, nil
	}
	svc := newTestTripService(trips, &mockUserRepo{t: t}, &mockFacilityRepo{t: t})

	trip, err := svc.CancelTrip(context.Background(), 11, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.TripStatusCancelled, trip.Status)
}

func TestCancelTrip_NotOwner(t *testing.T) {
	trips := &mockTripRepo{t: t}
	trips.findTripByIDFn = func(_ context.Context, tripID uint) (*domain.TripRequest, error) {
		return &domain.TripRequest{ID: tripID, UserID: 7, Status: domain.TripStatusPending}, nil
	}

	_, err := newTestTripService(trips, &mockUserRepo{t: t}, &mockFacilityRepo{t: t}).
		CancelTrip(context.Background(), 11, 8)
	var apiErr *helper.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}

func TestApproveTrip_RecordsDecision(t *testing.T) {
	trips := &mockTripRepo{t: t}
	trips.findTripByIDFn = func(_ context.Context, tripID uint) (*domain.TripRequest, error) {
		return &domain.TripRequest{ID: tripID, UserID: 7, Status: domain.TripStatusPending}, nil
	}
	trips.updateTripStatusFn = func(_ context.Context, tripID uint, fromStatus string, fields map[string]interface{}) (int64, error) {
		assert.Equal(t, domain.TripStatusApproved, fields["status"])
		assert.Equal(t, uint(1), fields["approver_id"])
		assert.Equal(t, "fits the budget", fields["decision_note"])
		assert.IsType(t, time.Time{}, fields["decided_at"])
		return 1, nil
	}

	_, err := newTestTripService(trips, &mockUserRepo{t: t}, &mockFacilityRepo{t: t}).
		ApproveTrip(context.Background(), 11, 1, "  fits the budget  ")
	assert.NoError(t, err)
}

func TestRejectTrip_AlreadyDecided(t *testing.T) {
	trips := &mockTripRepo{t: t}
	trips.findTripByIDFn = func(_ context.Context, tripID uint) (*domain.TripRequest, error) {
		return &domain.TripRequest{ID: tripID, UserID: 7, Status: domain.TripStatusApproved}, nil
	}
	// the guarded update loses, someone decided first
	trips.updateTripStatusFn = func(context.Context, uint, string, map[string]interface{}) (int64, error) {
		return 0, nil
	}

	_, err := newTestTripService(trips, &mockUserRepo{t: t}, &mockFacilityRepo{t: t}).
		RejectTrip(context.Background(), 11, 1, "")
	assert.ErrorIs(t, err, ErrTripNotPending)
}

func TestListMyTrips_ClampsPaging(t *testing.T) {
	trips := &mockTripRepo{t: t}
	var gotLimit, gotOffset int
	trips.listTripsByUserFn = func(_ context.Context, _ uint, limit, offset int) ([]domain.TripRequest, error) {
		gotLimit, gotOffset = limit, offset
		return nil, nil
	}
	svc := newTestTripService(trips, &mockUserRepo{t: t}, &mockFacilityRepo{t: t})

	_, err := svc.ListMyTrips(context.Background(), 7, 0, -5)
	require.NoError(t, err)
	assert.Equal(t, defaultListLimit, gotLimit)
	assert.Equal(t, 0, gotOffset)

	_, err = svc.ListMyTrips(context.Background(), 7, 10_000, 40)
	require.NoError(t, err)
	assert.Equal(t, maxListLimit, gotLimit)
	assert.Equal(t, 40, gotOffset)
}
