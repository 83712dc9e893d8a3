package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/RoveStack/travel_service/internal/domain"
	"github.com/RoveStack/travel_service/internal/logger"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, userID uint) (*domain.User, error)
	// UpdateUserByID applies fields and returns the updated row, or
	// ErrNotFound when no row matched.
	UpdateUserByID(ctx context.Context, userID uint, fields map[string]interface{}) (*domain.User, error)
	// UpdatePassword swaps the stored hash for the given email and reports
	// how many rows changed. Zero rows means the account vanished.
	UpdatePassword(ctx context.Context, email, passwordHash string) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("nil user")
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		logger.FromContext(ctx).Error().Err(err).Msg("create user failed")
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user := &domain.User{}

	if err := r.db.WithContext(ctx).First(user, "email = ?", email).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		logger.FromContext(ctx).Error().Err(err).Msg("find user by email failed")
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	return user, nil
}

func (r *userRepository) FindUserByID(ctx context.Context, userID uint) (*domain.User, error) {
	user := &domain.User{}

	if err := r.db.WithContext(ctx).First(user, userID).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		logger.FromContext(ctx).Error().Err(err).Msg("find user by id failed")
		return nil, fmt.Errorf("find user by id: %w", err)
	}

	return user, nil
}

func (r *userRepository) UpdateUserByID(ctx context.Context, userID uint, fields map[string]interface{}) (*domain.User, error) {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", userID).Updates(fields)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return nil, ErrDuplicateEmail
		}
		logger.FromContext(ctx).Error().Err(res.Error).Msg("update user failed")
		return nil, fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return r.FindUserByID(ctx, userID)
}

func (r *userRepository) UpdatePassword(ctx context.Context, email, passwordHash string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("email = ?", email).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		logger.FromContext(ctx).Error().Err(res.Error).Msg("update password failed")
		return 0, fmt.Errorf("update password: %w", res.Error)
	}

	return res.RowsAffected, nil
}
