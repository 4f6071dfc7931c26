package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/liuwy-dev/tuimian-go-api/internal/models"
)

// ApplicationRepository defines data operations for program applications.
type ApplicationRepository interface {
	GetOrCreateByUser(ctx context.Context, userID uint) (models.Application, error)
	Update(ctx context.Context, application *models.Application) error
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository instantiates the repository.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) GetOrCreateByUser(ctx context.Context, userID uint) (models.Application, error) {
	var application models.Application
	err := r.db.WithContext(ctx).First(&application, "user_id = ?", userID).Error
	if err == nil {
		return application, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Application{}, err
	}

	application = models.Application{
		UserID: userID,
		Status: models.ApplicationStatusDraft,
	}
	if err := r.db.WithContext(ctx).Create(&application).Error; err != nil {
		return models.Application{}, err
	}
	return application, nil
}

func (r *applicationRepository) Update(ctx context.Context, application *models.Application) error {
	return r.db.WithContext(ctx).Save(application).Error
}
