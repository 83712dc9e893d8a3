package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/RoveStack/travel_service/internal/domain"
	"github.com/RoveStack/travel_service/internal/logger"
)

type CompanyRepository interface {
	// CreateCompanyWithAdmin persists the company and its first user in one
	// transaction. Neither row survives if the other fails.
	CreateCompanyWithAdmin(ctx context.Context, company *domain.Company, admin *domain.User) error
	FindCompanyByID(ctx context.Context, companyID uint) (*domain.Company, error)
	UpdateCompanyByID(ctx context.Context, companyID uint, fields map[string]interface{}) (*domain.Company, error)
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) CreateCompanyWithAdmin(ctx context.Context, company *domain.Company, admin *domain.User) error {
	if company == nil || admin == nil {
		return errors.New("nil company or admin")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(company).Error; err != nil {
			return err
		}
		admin.CompanyID = &company.ID
		admin.Role = domain.RoleCompany
		return tx.Create(admin).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		logger.FromContext(ctx).Error().Err(err).Msg("create company failed")
		return fmt.Errorf("create company: %w", err)
	}

	return nil
}

func (r *companyRepository) FindCompanyByID(ctx context.Context, companyID uint) (*domain.Company, error) {
	company := &domain.Company{}

	if err := r.db.WithContext(ctx).First(company, companyID).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		logger.FromContext(ctx).Error().Err(err).Msg("find company failed")
		return nil, fmt.Errorf("find company: %w", err)
	}

	return company, nil
}

func (r *companyRepository) UpdateCompanyByID(ctx context.Context, companyID uint, fields map[string]interface{}) (*domain.Company, error) {
	res := r.db.WithContext(ctx).Model(&domain.Company{}).Where("id = ?", companyID).Updates(fields)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return nil, ErrDuplicate
		}
		logger.FromContext(ctx).Error().Err(res.Error).Msg("update company failed")
		return nil, fmt.Errorf("update company: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return r.FindCompanyByID(ctx, companyID)
}
