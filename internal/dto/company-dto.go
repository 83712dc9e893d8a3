package dto

import "github.com/RoveStack/travel_service/internal/domain"

type CompanySignUpRequest struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone,omitempty"`
	Address string  `json:"address"`

	// Admin becomes the company's first user.
	Admin RegisterRequest `json:"admin" validate:"required"`
}

type UpdateCompanyRequest struct {
	Name    string  `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address string  `json:"address,omitempty"`
}

type CompanySignUpResponse struct {
	Company   domain.Company `json:"company"`
	User      UserResponse   `json:"user"`
	EmailSent bool           `json:"email_sent"`
}
