package dto

import (
	"time"

	"github.com/RoveStack/travel_service/internal/domain"
)

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
}

type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the final step of the reset handshake. The token is
// the same one the reset mail carried; it is re-verified before any update.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// SocialIdentity is what the OAuth callback hands to the auth service:
// a provider-verified identity, never trusted to create accounts.
type SocialIdentity struct {
	Provider  string `json:"provider"`
	Subject   string `json:"subject"`
	Email     string `json:"email"`
	Verified  bool   `json:"verified"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserResponse is the client-safe projection of a user. The password hash
// never leaves the domain layer; the token rides along when one was issued.
type UserResponse struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Role       string `json:"role"`
	IsVerified bool   `json:"is_verified"`
	CompanyID  *uint  `json:"company_id,omitempty"`
	Token      string `json:"token,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func NewUserResponse(user *domain.User, token string) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Role:       user.Role,
		IsVerified: user.IsVerified,
		CompanyID:  user.CompanyID,
		Token:      token,
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
	}
}

type SignUpResponse struct {
	User      UserResponse `json:"user"`
	EmailSent bool         `json:"email_sent"`
}

// ResetLinkResponse answers the reset-link verification step with the URL the
// client must POST the new password to.
type ResetLinkResponse struct {
	Message  string `json:"message"`
	ResetURL string `json:"reset_url"`
}
