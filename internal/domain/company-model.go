package domain

import "gorm.io/gorm"

type Company struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	Name    string  `gorm:"uniqueIndex;not null" json:"name"`
	Email   string  `gorm:"uniqueIndex;not null" json:"email"`
	Phone   *string `json:"phone,omitempty"`
	Address string  `json:"address"`
	gorm.Model
}
