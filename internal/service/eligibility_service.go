package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/liuwy-dev/tuimian-go-api/internal/dto"
	"github.com/liuwy-dev/tuimian-go-api/internal/models"
	"github.com/liuwy-dev/tuimian-go-api/internal/observability"
	"github.com/liuwy-dev/tuimian-go-api/internal/policy"
	"github.com/liuwy-dev/tuimian-go-api/internal/repository"
)

// EligibilityService pre-checks prospective submissions without persisting
// anything, so the submission form can surface violations as the student
// types.
type EligibilityService interface {
	Check(ctx context.Context, userID uint, req dto.EligibilityCheckRequest) (dto.EligibilityCheckResponse, error)
}

type eligibilityService struct {
	achievements repository.AchievementRepository
	policies     *policy.Validator
	validate     *validator.Validate
	logger       zerolog.Logger
}

// NewEligibilityService constructs the dry-run policy checker.
func NewEligibilityService(
	achievements repository.AchievementRepository,
	policies *policy.Validator,
	validate *validator.Validate,
	logger zerolog.Logger,
) EligibilityService {
	return &eligibilityService{
		achievements: achievements,
		policies:     policies,
		validate:     validate,
		logger:       logger.With().Str("component", "eligibility_service").Logger(),
	}
}

func (s *eligibilityService) Check(ctx context.Context, userID uint, req dto.EligibilityCheckRequest) (dto.EligibilityCheckResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.EligibilityCheckResponse{}, err
	}

	achievements, err := s.achievements.List(ctx, repository.AchievementFilter{
		UserID:   &userID,
		Statuses: []string{models.AchievementStatusSubmitted, models.AchievementStatusApproved},
	})
	if err != nil {
		return dto.EligibilityCheckResponse{}, err
	}

	result := s.policies.Validate(req.ToSubmission(), buildStudentState(achievements))

	outcome := "accepted"
	if !result.Accepted() {
		outcome = "rejected"
	}
	observability.EligibilityChecks().WithLabelValues(outcome).Inc()

	s.logger.Debug().
		Uint("user_id", userID).
		Str("item_slug", req.ItemSlug).
		Int("violations", len(result.Violations)).
		Msg("eligibility check evaluated")

	return dto.NewEligibilityCheckResponse(result), nil
}
