package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/RoveStack/travel_service/internal/domain"
	"github.com/RoveStack/travel_service/internal/dto"
	"github.com/RoveStack/travel_service/internal/helper"
	"github.com/RoveStack/travel_service/internal/logger"
	"github.com/RoveStack/travel_service/internal/mailer"
	"github.com/RoveStack/travel_service/internal/repository"
)

type AuthService interface {
	SignUp(ctx context.Context, input dto.RegisterRequest) (*dto.SignUpResponse, error)
	Login(ctx context.Context, input dto.UserLogin) (*dto.UserResponse, error)
	SocialLogin(ctx context.Context, identity dto.SocialIdentity) (*dto.UserResponse, error)
	VerifyEmail(ctx context.Context, token string) error
	SendResetPasswordEmail(ctx context.Context, email string) error
	VerifyPasswordResetLink(ctx context.Context, token string) (*dto.ResetLinkResponse, error)
	ResetPassword(ctx context.Context, email string, input dto.ResetPasswordRequest) error
	CurrentUser(ctx context.Context, userID uint) (*dto.UserResponse, error)
}

type authService struct {
	repo    repository.UserRepository
	mail    mailer.Mailer
	auth    helper.Auth
	baseURL string
}

func NewAuthService(repo repository.UserRepository, mail mailer.Mailer, auth helper.Auth, baseURL string) AuthService {
	return &authService{
		repo:    repo,
		mail:    mail,
		auth:    auth,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SignUp hashes, persists and logs the new user in. The verification mail is
// best effort: a false from the mailer lands in the response as
// email_sent=false and nothing else.
func (s *authService) SignUp(ctx context.Context, input dto.RegisterRequest) (*dto.SignUpResponse, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)
	firstName := strings.TrimSpace(input.FirstName)

	if email == "" || password == "" || firstName == "" {
		return nil, helper.NewApiError(http.StatusBadRequest, "Please provide valid inputs")
	}
	if len(password) < 6 {
		return nil, helper.NewApiError(http.StatusBadRequest, "password must be at least 6 characters")
	}

	hashed, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, &domain.User{
		Email:        email,
		PasswordHash: hashed,
		FirstName:    firstName,
		LastName:     strings.TrimSpace(input.LastName),
		Role:         domain.RoleUser,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.auth.GenerateToken(helper.TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, 0)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	emailSent := s.mail.SendVerificationMail(ctx, mailer.VerificationMail{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		Role:      user.Role,
	})
	if !emailSent {
		logger.FromContext(ctx).Warn().Str("email", user.Email).Msg("verification mail not sent")
	}

	return &dto.SignUpResponse{
		User:      dto.NewUserResponse(user, token),
		EmailSent: emailSent,
	}, nil
}

func (s *authService) Login(ctx context.Context, input dto.UserLogin) (*dto.UserResponse, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)

	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.auth.GenerateToken(helper.TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, 0)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	resp := dto.NewUserResponse(user, token)
	return &resp, nil
}

// SocialLogin logs an existing account in via a provider-verified identity.
// Accounts are never created here; the provider subject is linked on first
// social login and may not move to a different identity afterwards.
func (s *authService) SocialLogin(ctx context.Context, identity dto.SocialIdentity) (*dto.UserResponse, error) {
	email := strings.TrimSpace(strings.ToLower(identity.Email))
	if email == "" || !identity.Verified {
		return nil, helper.NewApiError(http.StatusUnauthorized, "a verified email is required to login")
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSignupRequired
		}
		return nil, err
	}

	if user.GoogleSub != nil && *user.GoogleSub != "" && identity.Subject != "" && *user.GoogleSub != identity.Subject {
		return nil, helper.NewApiError(http.StatusForbidden, "this account is linked to a different Google identity")
	}

	if identity.Subject != "" && (user.GoogleSub == nil || *user.GoogleSub == "") {
		updated, err := s.repo.UpdateUserByID(ctx, user.ID, map[string]interface{}{"google_sub": identity.Subject})
		if err != nil {
			logger.FromContext(ctx).Warn().Err(err).Uint("user_id", user.ID).Msg("google subject link failed")
		} else {
			user = updated
		}
	}

	token, err := s.auth.GenerateToken(helper.TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, 0)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	resp := dto.NewUserResponse(user, token)
	return &resp, nil
}

func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.auth.VerifyToken(token)
	if err != nil {
		return err
	}

	// Re-verifying an already verified user is a no-op success.
	if _, err := s.repo.UpdateUserByID(ctx, claims.UserID, map[string]interface{}{"is_verified": true}); err != nil {
		return err
	}
	return nil
}

// SendResetPasswordEmail issues the 24h reset token, builds the absolute
// verification link and hands both to the mailer. Unlike signup, a mail
// failure here fails the operation.
func (s *authService) SendResetPasswordEmail(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return helper.NewApiError(http.StatusBadRequest, "Please provide valid inputs")
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := s.auth.GenerateToken(helper.TokenClaims{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
	}, helper.ResetTokenTTL)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	resetLink := fmt.Sprintf("%s/api/user/reset-password?token=%s", s.baseURL, token)

	if !s.mail.SendResetMail(ctx, mailer.ResetMail{
		Email:     user.Email,
		FirstName: user.FirstName,
		ResetLink: resetLink,
	}) {
		return ErrMailNotSent
	}
	return nil
}

// VerifyPasswordResetLink validates the mailed token and answers with the URL
// the new password must be posted to.
func (s *authService) VerifyPasswordResetLink(ctx context.Context, token string) (*dto.ResetLinkResponse, error) {
	claims, err := s.auth.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	resetURL := fmt.Sprintf("%s/api/user/reset-password/%s?token=%s", s.baseURL, url.PathEscape(claims.Email), token)
	return &dto.ResetLinkResponse{
		Message:  "Token verified, submit the new password to the reset URL",
		ResetURL: resetURL,
	}, nil
}

// ResetPassword re-verifies the reset token and requires its subject to match
// the addressed account before any update happens.
func (s *authService) ResetPassword(ctx context.Context, email string, input dto.ResetPasswordRequest) error {
	email = strings.TrimSpace(strings.ToLower(email))
	password := strings.TrimSpace(input.Password)

	if email == "" || password == "" {
		return helper.NewApiError(http.StatusBadRequest, "Please provide valid inputs")
	}
	if len(password) < 6 {
		return helper.NewApiError(http.StatusBadRequest, "password must be at least 6 characters")
	}

	claims, err := s.auth.VerifyToken(input.Token)
	if err != nil {
		return err
	}
	if !strings.EqualFold(claims.Email, email) {
		return helper.ErrTokenInvalid
	}

	hashed, err := s.auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	rows, err := s.repo.UpdatePassword(ctx, email, hashed)
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *authService) CurrentUser(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := dto.NewUserResponse(user, "")
	return &resp, nil
}
