package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/liuwy-dev/tuimian-go-api/internal/models"
)

// AcademicRecordRepository defines data operations for GPA records.
type AcademicRecordRepository interface {
	GetByUser(ctx context.Context, userID uint) (models.AcademicRecord, error)
	Upsert(ctx context.Context, record *models.AcademicRecord) error
	ListByUserIDs(ctx context.Context, userIDs []uint) ([]models.AcademicRecord, error)
}

type academicRecordRepository struct {
	db *gorm.DB
}

// NewAcademicRecordRepository instantiates the repository.
func NewAcademicRecordRepository(db *gorm.DB) AcademicRecordRepository {
	return &academicRecordRepository{db: db}
}

func (r *academicRecordRepository) GetByUser(ctx context.Context, userID uint) (models.AcademicRecord, error) {
	var record models.AcademicRecord
	if err := r.db.WithContext(ctx).First(&record, "user_id = ?", userID).Error; err != nil {
		return models.AcademicRecord{}, err
	}
	return record, nil
}

// Upsert creates or replaces the student's single GPA record.
func (r *academicRecordRepository) Upsert(ctx context.Context, record *models.AcademicRecord) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"gpa", "score", "evidence_url", "updated_at"}),
	}).Create(record).Error
}

func (r *academicRecordRepository) ListByUserIDs(ctx context.Context, userIDs []uint) ([]models.AcademicRecord, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var records []models.AcademicRecord
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
