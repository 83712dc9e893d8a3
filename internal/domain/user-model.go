package domain

import "gorm.io/gorm"

const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleCompany = "company"
)

type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string  `json:"-"`
	GoogleSub    *string `gorm:"uniqueIndex" json:"google_sub,omitempty"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Role         string  `gorm:"type:varchar(20);not null;default:user" json:"role"`
	IsVerified   bool    `gorm:"not null;default:false" json:"is_verified"`
	CompanyID    *uint   `gorm:"index" json:"company_id,omitempty"`
	gorm.Model
}
