package domain

import "gorm.io/gorm"

type Facility struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Location    string    `gorm:"not null" json:"location"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Rooms       []Room    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"rooms,omitempty"`
	Amenities   []Amenity `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"amenities,omitempty"`
	gorm.Model
}

type Room struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	FacilityID    uint    `gorm:"index;not null" json:"facility_id"`
	Name          string  `gorm:"not null" json:"name"`
	Capacity      int     `gorm:"not null" json:"capacity"`
	PricePerNight float64 `json:"price_per_night"`
	gorm.Model
}

type Amenity struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	FacilityID uint   `gorm:"index;not null" json:"facility_id"`
	Name       string `gorm:"not null" json:"name"`
	gorm.Model
}
