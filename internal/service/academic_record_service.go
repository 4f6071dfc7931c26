package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/liuwy-dev/tuimian-go-api/internal/dto"
	"github.com/liuwy-dev/tuimian-go-api/internal/models"
	"github.com/liuwy-dev/tuimian-go-api/internal/repository"
	"github.com/liuwy-dev/tuimian-go-api/internal/scoring"
)

// ErrAcademicRecordNotFound indicates the student has no GPA record yet.
var ErrAcademicRecordNotFound = errors.New("academic record not found")

// AcademicRecordService manages each student's single GPA record.
type AcademicRecordService interface {
	Get(ctx context.Context, userID uint) (dto.AcademicRecordResponse, error)
	Upsert(ctx context.Context, userID uint, req dto.AcademicRecordUpsertRequest) (dto.AcademicRecordResponse, error)
}

type academicRecordService struct {
	records  repository.AcademicRecordRepository
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewAcademicRecordService constructs the GPA record service.
func NewAcademicRecordService(records repository.AcademicRecordRepository, validate *validator.Validate, logger zerolog.Logger) AcademicRecordService {
	return &academicRecordService{
		records:  records,
		validate: validate,
		logger:   logger.With().Str("component", "academic_record_service").Logger(),
	}
}

func (s *academicRecordService) Get(ctx context.Context, userID uint) (dto.AcademicRecordResponse, error) {
	record, err := s.records.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AcademicRecordResponse{}, ErrAcademicRecordNotFound
		}
		return dto.AcademicRecordResponse{}, err
	}
	return dto.NewAcademicRecordResponse(record), nil
}

// Upsert stores the GPA on a 0-4 scale and its derived 0-100 score.
func (s *academicRecordService) Upsert(ctx context.Context, userID uint, req dto.AcademicRecordUpsertRequest) (dto.AcademicRecordResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.AcademicRecordResponse{}, err
	}

	record := models.AcademicRecord{
		UserID:      userID,
		GPA:         req.GPA,
		Score:       scoring.Round2(scoring.Clamp(req.GPA, 0, scoring.GPAMax) * scoring.GPAScoreMultiplier),
		EvidenceURL: req.EvidenceURL,
	}
	if err := s.records.Upsert(ctx, &record); err != nil {
		return dto.AcademicRecordResponse{}, err
	}

	s.logger.Info().Uint("user_id", userID).Float64("gpa", req.GPA).Msg("academic record stored")

	return dto.NewAcademicRecordResponse(record), nil
}
