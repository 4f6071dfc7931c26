package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/liuwy-dev/tuimian-go-api/internal/dto"
	"github.com/liuwy-dev/tuimian-go-api/internal/models"
	"github.com/liuwy-dev/tuimian-go-api/internal/repository"
)

// ErrApplicationAlreadySubmitted indicates the application is locked.
var ErrApplicationAlreadySubmitted = errors.New("application already submitted")

// ApplicationService manages the student's overall program application.
type ApplicationService interface {
	Get(ctx context.Context, userID uint) (dto.ApplicationResponse, error)
	Update(ctx context.Context, userID uint, req dto.ApplicationUpdateRequest) (dto.ApplicationResponse, error)
	Submit(ctx context.Context, userID uint) (dto.ApplicationResponse, error)
}

type applicationService struct {
	applications repository.ApplicationRepository
	validate     *validator.Validate
	sanitizer    *bluemonday.Policy
	logger       zerolog.Logger
	now          func() time.Time
}

// NewApplicationService constructs the program application service.
func NewApplicationService(applications repository.ApplicationRepository, validate *validator.Validate, logger zerolog.Logger) ApplicationService {
	return &applicationService{
		applications: applications,
		validate:     validate,
		sanitizer:    bluemonday.StrictPolicy(),
		logger:       logger.With().Str("component", "application_service").Logger(),
		now:          time.Now,
	}
}

func (s *applicationService) Get(ctx context.Context, userID uint) (dto.ApplicationResponse, error) {
	application, err := s.applications.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return dto.ApplicationResponse{}, err
	}
	return dto.NewApplicationResponse(application), nil
}

func (s *applicationService) Update(ctx context.Context, userID uint, req dto.ApplicationUpdateRequest) (dto.ApplicationResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.ApplicationResponse{}, err
	}

	application, err := s.applications.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return dto.ApplicationResponse{}, err
	}
	if application.Status == models.ApplicationStatusSubmitted {
		return dto.ApplicationResponse{}, ErrApplicationAlreadySubmitted
	}

	if req.PersonalStatement != nil {
		application.PersonalStatement = strings.TrimSpace(s.sanitizer.Sanitize(*req.PersonalStatement))
	}
	if req.Plan != nil {
		application.Plan = strings.TrimSpace(s.sanitizer.Sanitize(*req.Plan))
	}

	if err := s.applications.Update(ctx, &application); err != nil {
		return dto.ApplicationResponse{}, err
	}
	return dto.NewApplicationResponse(application), nil
}

func (s *applicationService) Submit(ctx context.Context, userID uint) (dto.ApplicationResponse, error) {
	application, err := s.applications.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return dto.ApplicationResponse{}, err
	}
	if application.Status == models.ApplicationStatusSubmitted {
		return dto.ApplicationResponse{}, ErrApplicationAlreadySubmitted
	}

	submittedAt := s.now()
	application.Status = models.ApplicationStatusSubmitted
	application.LastSubmittedAt = &submittedAt

	if err := s.applications.Update(ctx, &application); err != nil {
		return dto.ApplicationResponse{}, err
	}

	s.logger.Info().Uint("user_id", userID).Msg("program application submitted")

	return dto.NewApplicationResponse(application), nil
}
