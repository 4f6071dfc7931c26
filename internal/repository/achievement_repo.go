package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/liuwy-dev/tuimian-go-api/internal/models"
)

// AchievementFilter narrows achievement queries.
type AchievementFilter struct {
	UserID   *uint
	Statuses []string
}

// AchievementRepository defines data operations for achievements and their
// review decision slots.
type AchievementRepository interface {
	List(ctx context.Context, filter AchievementFilter) ([]models.Achievement, error)
	GetByID(ctx context.Context, id uint) (models.Achievement, error)
	GetByIDForUser(ctx context.Context, id, userID uint) (models.Achievement, error)
	Create(ctx context.Context, achievement *models.Achievement) error
	Update(ctx context.Context, achievement *models.Achievement) error
	ReplaceReviews(ctx context.Context, achievementID uint, reviews []models.ReviewDecision) error
	Delete(ctx context.Context, id, userID uint) error
	DistinctUserIDsWithSubmissions(ctx context.Context) ([]uint, error)
}

type achievementRepository struct {
	db *gorm.DB
}

// NewAchievementRepository instantiates the repository.
func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Achievement{}).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("review_decisions.id ASC")
		})
}

func (r *achievementRepository) List(ctx context.Context, filter AchievementFilter) ([]models.Achievement, error) {
	query := r.baseQuery(ctx)

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}

	var achievements []models.Achievement
	if err := query.Order("obtained_at ASC, id ASC").Find(&achievements).Error; err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *achievementRepository) GetByID(ctx context.Context, id uint) (models.Achievement, error) {
	var achievement models.Achievement
	if err := r.baseQuery(ctx).First(&achievement, "achievements.id = ?", id).Error; err != nil {
		return models.Achievement{}, err
	}
	return achievement, nil
}

func (r *achievementRepository) GetByIDForUser(ctx context.Context, id, userID uint) (models.Achievement, error) {
	var achievement models.Achievement
	err := r.baseQuery(ctx).
		First(&achievement, "achievements.id = ? AND achievements.user_id = ?", id, userID).Error
	if err != nil {
		return models.Achievement{}, err
	}
	return achievement, nil
}

func (r *achievementRepository) Create(ctx context.Context, achievement *models.Achievement) error {
	return r.db.WithContext(ctx).Create(achievement).Error
}

func (r *achievementRepository) Update(ctx context.Context, achievement *models.Achievement) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: false}).
		Omit("Reviews").
		Save(achievement).Error
}

// ReplaceReviews swaps the full decision slot list of one achievement inside
// a transaction. The consensus engine works on complete lists, so partial
// slot updates are never issued.
func (r *achievementRepository) ReplaceReviews(ctx context.Context, achievementID uint, reviews []models.ReviewDecision) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("achievement_id = ?", achievementID).Delete(&models.ReviewDecision{}).Error; err != nil {
			return err
		}
		if len(reviews) == 0 {
			return nil
		}
		for i := range reviews {
			reviews[i].ID = 0
			reviews[i].AchievementID = achievementID
		}
		return tx.Create(&reviews).Error
	})
}

func (r *achievementRepository) Delete(ctx context.Context, id, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Achievement{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DistinctUserIDsWithSubmissions lists every student owning at least one
// non-draft achievement; this is the ranking population.
func (r *achievementRepository) DistinctUserIDsWithSubmissions(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Achievement{}).
		Where("status <> ?", models.AchievementStatusDraft).
		Distinct("user_id").
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
