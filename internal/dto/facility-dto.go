package dto

type CreateFacilityRequest struct {
	Name        string      `json:"name" validate:"required"`
	Location    string      `json:"location" validate:"required"`
	Description string      `json:"description"`
	Rooms       []RoomInput `json:"rooms,omitempty"`
	Amenities   []string    `json:"amenities,omitempty"`
}

type RoomInput struct {
	Name          string  `json:"name" validate:"required"`
	Capacity      int     `json:"capacity" validate:"required,min=1"`
	PricePerNight float64 `json:"price_per_night"`
}

type UpdateFacilityRequest struct {
	Name        string `json:"name,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

type AddAmenityRequest struct {
	Name string `json:"name" validate:"required"`
}
