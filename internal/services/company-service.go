package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/RoveStack/travel_service/internal/domain"
	"github.com/RoveStack/travel_service/internal/dto"
	"github.com/RoveStack/travel_service/internal/helper"
	"github.com/RoveStack/travel_service/internal/logger"
	"github.com/RoveStack/travel_service/internal/mailer"
	"github.com/RoveStack/travel_service/internal/repository"
)

type CompanyService interface {
	SignUp(ctx context.Context, input dto.CompanySignUpRequest) (*dto.CompanySignUpResponse, error)
	GetMyCompany(ctx context.Context, userID uint) (*domain.Company, error)
	UpdateMyCompany(ctx context.Context, userID uint, input dto.UpdateCompanyRequest) (*domain.Company, error)
}

type companyService struct {
	companyRepo repository.CompanyRepository
	userRepo    repository.UserRepository
	mail        mailer.Mailer
	auth        helper.Auth
}

func NewCompanyService(companyRepo repository.CompanyRepository, userRepo repository.UserRepository, mail mailer.Mailer, auth helper.Auth) CompanyService {
	return &companyService{
		companyRepo: companyRepo,
		userRepo:    userRepo,
		mail:        mail,
		auth:        auth,
	}
}

// SignUp registers a company and its first user atomically. When the user row
// fails the company row is rolled back with it.
func (s *companyService) SignUp(ctx context.Context, input dto.CompanySignUpRequest) (*dto.CompanySignUpResponse, error) {
	name := strings.TrimSpace(input.Name)
	companyEmail := strings.TrimSpace(strings.ToLower(input.Email))
	adminEmail := strings.TrimSpace(strings.ToLower(input.Admin.Email))
	adminPassword := strings.TrimSpace(input.Admin.Password)
	adminFirstName := strings.TrimSpace(input.Admin.FirstName)

	if name == "" || companyEmail == "" || adminEmail == "" || adminPassword == "" || adminFirstName == "" {
		return nil, helper.NewApiError(http.StatusBadRequest, "Please provide valid inputs")
	}
	if len(adminPassword) < 6 {
		return nil, helper.NewApiError(http.StatusBadRequest, "password must be at least 6 characters")
	}

	hashed, err := s.auth.HashPassword(adminPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	company := &domain.Company{
		Name:    name,
		Email:   companyEmail,
		Phone:   input.Phone,
		Address: strings.TrimSpace(input.Address),
	}
	admin := &domain.User{
		Email:        adminEmail,
		PasswordHash: hashed,
		FirstName:    adminFirstName,
		LastName:     strings.TrimSpace(input.Admin.LastName),
	}

	if err := s.companyRepo.CreateCompanyWithAdmin(ctx, company, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) || errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, helper.NewApiError(http.StatusConflict, "company name or email already in use")
		}
		return nil, err
	}

	token, err := s.auth.GenerateToken(helper.TokenClaims{
		UserID: admin.ID,
		Email:  admin.Email,
		Role:   admin.Role,
	}, 0)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	emailSent := s.mail.SendVerificationMail(ctx, mailer.VerificationMail{
		UserID:    admin.ID,
		Email:     admin.Email,
		FirstName: admin.FirstName,
		Role:      admin.Role,
	})
	if !emailSent {
		logger.FromContext(ctx).Warn().Str("email", admin.Email).Msg("verification mail not sent")
	}

	return &dto.CompanySignUpResponse{
		Company:   *company,
		User:      dto.NewUserResponse(admin, token),
		EmailSent: emailSent,
	}, nil
}

func (s *companyService) GetMyCompany(ctx context.Context, userID uint) (*domain.Company, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.CompanyID == nil {
		return nil, helper.NewApiError(http.StatusNotFound, "no company for this account")
	}

	return s.companyRepo.FindCompanyByID(ctx, *user.CompanyID)
}

func (s *companyService) UpdateMyCompany(ctx context.Context, userID uint, input dto.UpdateCompanyRequest) (*domain.Company, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.CompanyID == nil {
		return nil, helper.NewApiError(http.StatusNotFound, "no company for this account")
	}

	fields := map[string]interface{}{}
	if name := strings.TrimSpace(input.Name); name != "" {
		fields["name"] = name
	}
	if input.Phone != nil {
		fields["phone"] = *input.Phone
	}
	if address := strings.TrimSpace(input.Address); address != "" {
		fields["address"] = address
	}
	if len(fields) == 0 {
		return nil, helper.NewApiError(http.StatusBadRequest, "Please provide valid inputs")
	}

	company, err := s.companyRepo.UpdateCompanyByID(ctx, *user.CompanyID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, helper.NewApiError(http.StatusConflict, "company name already in use")
		}
		return nil, err
	}
	return company, nil
}
