package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/liuwy-dev/tuimian-go-api/internal/models"
)

// UserRepository defines data operations for program accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (models.User, error)
	GetByStudentNumber(ctx context.Context, studentNumber string) (models.User, error)
	ListActiveReviewers(ctx context.Context) ([]models.User, error)
	ListActiveByIDs(ctx context.Context, ids []uint) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository instantiates the repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) GetByStudentNumber(ctx context.Context, studentNumber string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "student_number = ?", studentNumber).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) ListActiveReviewers(ctx context.Context) ([]models.User, error) {
	var reviewers []models.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", models.RoleReviewer, true).
		Order("id ASC").
		Find(&reviewers).Error
	if err != nil {
		return nil, err
	}
	return reviewers, nil
}

func (r *userRepository) ListActiveByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
