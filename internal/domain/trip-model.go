package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	TripStatusPending   = "pending"
	TripStatusApproved  = "approved"
	TripStatusRejected  = "rejected"
	TripStatusCancelled = "cancelled"
)

// TripRequest moves pending -> approved/rejected (admin) or
// pending -> cancelled (owner). No other transitions.
type TripRequest struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Reference    string     `gorm:"uniqueIndex;not null" json:"reference"`
	UserID       uint       `gorm:"index;not null" json:"user_id"`
	CompanyID    *uint      `gorm:"index" json:"company_id,omitempty"`
	FacilityID   *uint      `gorm:"index" json:"facility_id,omitempty"`
	Origin       string     `gorm:"not null" json:"origin"`
	Destination  string     `gorm:"not null" json:"destination"`
	Purpose      string     `json:"purpose"`
	DepartDate   time.Time  `gorm:"not null" json:"depart_date"`
	ReturnDate   *time.Time `json:"return_date,omitempty"`
	Status       string     `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	ApproverID   *uint      `json:"approver_id,omitempty"`
	DecisionNote *string    `json:"decision_note,omitempty"`
	DecidedAt    *time.Time `json:"decided_at,omitempty"`
	gorm.Model
}
