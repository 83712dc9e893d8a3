package dto

import "time"

type CreateTripRequest struct {
	Origin      string     `json:"origin" validate:"required"`
	Destination string     `json:"destination" validate:"required"`
	Purpose     string     `json:"purpose"`
	DepartDate  time.Time  `json:"depart_date" validate:"required"`
	ReturnDate  *time.Time `json:"return_date,omitempty"`
	FacilityID  *uint      `json:"facility_id,omitempty"`
}

// TripDecisionRequest carries the optional note an admin attaches when
// approving or rejecting.
type TripDecisionRequest struct {
	Note string `json:"note,omitempty"`
}
