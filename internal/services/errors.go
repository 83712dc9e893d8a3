package services

import (
	"errors"
	"net/http"

	"github.com/RoveStack/travel_service/internal/helper"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// login failures never reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid login details")
	// ErrMailNotSent means the reset mail could not be handed off.
	ErrMailNotSent = errors.New("could not send reset password email")
	// ErrTripNotPending rejects decisions on trips that already left pending.
	ErrTripNotPending = errors.New("trip is not pending")
)

// ErrSignupRequired is returned when a social identity has no local account.
// Social login never provisions accounts.
var ErrSignupRequired = helper.NewApiError(http.StatusForbidden, "You need to signup to use this feature")
