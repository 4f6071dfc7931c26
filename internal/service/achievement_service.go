package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/liuwy-dev/tuimian-go-api/internal/dto"
	"github.com/liuwy-dev/tuimian-go-api/internal/models"
	"github.com/liuwy-dev/tuimian-go-api/internal/policy"
	"github.com/liuwy-dev/tuimian-go-api/internal/repository"
	"github.com/liuwy-dev/tuimian-go-api/internal/review"
	"github.com/liuwy-dev/tuimian-go-api/internal/scoring"
)

var (
	// ErrAchievementNotFound indicates the achievement does not exist or is
	// not owned by the caller.
	ErrAchievementNotFound = errors.New("achievement not found")
	// ErrAchievementNotEditable indicates the achievement has already been
	// adjudicated and can no longer be changed by its owner.
	ErrAchievementNotEditable = errors.New("achievement is no longer editable")
	// ErrInvalidCategory indicates an unknown achievement category.
	ErrInvalidCategory = errors.New("unknown achievement category")
	// ErrEligibilityRejected indicates the submission failed policy checks.
	ErrEligibilityRejected = errors.New("submission rejected by eligibility policy")
)

// AchievementService owns the student-facing achievement lifecycle.
type AchievementService interface {
	List(ctx context.Context, userID uint, filter dto.AchievementFilter) ([]dto.AchievementResponse, error)
	Get(ctx context.Context, userID, id uint) (dto.AchievementResponse, error)
	Create(ctx context.Context, userID uint, req dto.AchievementCreateRequest) (dto.AchievementResponse, error)
	Update(ctx context.Context, userID, id uint, req dto.AchievementUpdateRequest) (dto.AchievementResponse, error)
	Submit(ctx context.Context, userID, id uint) (dto.AchievementResponse, policy.Result, error)
	Delete(ctx context.Context, userID, id uint) error
	Summary(ctx context.Context, userID uint) (dto.ScoreSummaryResponse, error)
}

type achievementService struct {
	achievements repository.AchievementRepository
	roster       *review.RosterCache
	policies     *policy.Validator
	validate     *validator.Validate
	events       EventPublisher
	sanitizer    *bluemonday.Policy
	locks        *keyedMutex
	tracer       trace.Tracer
	logger       zerolog.Logger
	now          func() time.Time
}

// NewAchievementService constructs the achievement lifecycle service.
func NewAchievementService(
	achievements repository.AchievementRepository,
	roster *review.RosterCache,
	policies *policy.Validator,
	validate *validator.Validate,
	events EventPublisher,
	logger zerolog.Logger,
) AchievementService {
	return &achievementService{
		achievements: achievements,
		roster:       roster,
		policies:     policies,
		validate:     validate,
		events:       events,
		sanitizer:    bluemonday.StrictPolicy(),
		locks:        newKeyedMutex(),
		tracer:       otel.Tracer("github.com/liuwy-dev/tuimian-go-api/internal/service/achievement"),
		logger:       logger.With().Str("component", "achievement_service").Logger(),
		now:          time.Now,
	}
}

func (s *achievementService) List(ctx context.Context, userID uint, filter dto.AchievementFilter) ([]dto.AchievementResponse, error) {
	repoFilter := repository.AchievementFilter{UserID: &userID}
	if filter.Status != nil {
		repoFilter.Statuses = []string{*filter.Status}
	}

	achievements, err := s.achievements.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	return dto.NewAchievementResponseSlice(achievements), nil
}

func (s *achievementService) Get(ctx context.Context, userID, id uint) (dto.AchievementResponse, error) {
	achievement, err := s.achievements.GetByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AchievementResponse{}, ErrAchievementNotFound
		}
		return dto.AchievementResponse{}, err
	}

	if achievement.Status != models.AchievementStatusDraft {
		achievement, err = s.reconcileRoster(ctx, achievement)
		if err != nil {
			return dto.AchievementResponse{}, err
		}
	}

	return dto.NewAchievementResponse(achievement), nil
}

func (s *achievementService) Create(ctx context.Context, userID uint, req dto.AchievementCreateRequest) (dto.AchievementResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.AchievementResponse{}, err
	}
	if !models.IsValidCategory(req.Category) {
		return dto.AchievementResponse{}, ErrInvalidCategory
	}

	category := models.AchievementCategory(req.Category)
	achievement := models.Achievement{
		UserID:      userID,
		Title:       s.sanitize(req.Title),
		Category:    category,
		ItemSlug:    strings.TrimSpace(req.ItemSlug),
		ObtainedAt:  req.ObtainedAt,
		Description: s.sanitize(req.Description),
		EvidenceURL: strings.TrimSpace(req.EvidenceURL),
		Status:      models.AchievementStatusDraft,
		Metadata:    datatypes.JSONMap(req.Metadata),
	}
	achievement.Score = scoring.Round2(scoring.CalculateBase(category, achievement.Metadata).RawScore)

	if err := s.achievements.Create(ctx, &achievement); err != nil {
		return dto.AchievementResponse{}, err
	}

	s.logger.Info().Uint("achievement_id", achievement.ID).Uint("user_id", userID).Msg("achievement created")

	return dto.NewAchievementResponse(achievement), nil
}

func (s *achievementService) Update(ctx context.Context, userID, id uint, req dto.AchievementUpdateRequest) (dto.AchievementResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.AchievementResponse{}, err
	}
	if req.Category != nil && !models.IsValidCategory(*req.Category) {
		return dto.AchievementResponse{}, ErrInvalidCategory
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	achievement, err := s.achievements.GetByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AchievementResponse{}, ErrAchievementNotFound
		}
		return dto.AchievementResponse{}, err
	}
	if !achievement.IsEditable() {
		return dto.AchievementResponse{}, ErrAchievementNotEditable
	}

	if req.Title != nil {
		achievement.Title = s.sanitize(*req.Title)
	}
	if req.Category != nil {
		achievement.Category = models.AchievementCategory(*req.Category)
	}
	if req.ItemSlug != nil {
		achievement.ItemSlug = strings.TrimSpace(*req.ItemSlug)
	}
	if req.ObtainedAt != nil {
		achievement.ObtainedAt = *req.ObtainedAt
	}
	if req.Description != nil {
		achievement.Description = s.sanitize(*req.Description)
	}
	if req.EvidenceURL != nil {
		achievement.EvidenceURL = strings.TrimSpace(*req.EvidenceURL)
	}
	if req.Metadata != nil {
		achievement.Metadata = datatypes.JSONMap(req.Metadata)
	}

	achievement.Score = scoring.Round2(scoring.CalculateBase(achievement.Category, achievement.Metadata).RawScore)

	// A material edit always restarts consensus from zero.
	achievement.Reviews = review.ResetDecisions(achievement.Reviews)

	if err := s.achievements.Update(ctx, &achievement); err != nil {
		return dto.AchievementResponse{}, err
	}
	if err := s.achievements.ReplaceReviews(ctx, achievement.ID, achievement.Reviews); err != nil {
		return dto.AchievementResponse{}, err
	}

	s.logger.Info().Uint("achievement_id", achievement.ID).Msg("achievement edited, review verdicts reset")

	return dto.NewAchievementResponse(achievement), nil
}

// Submit transitions a draft into review. The eligibility outcome is always
// returned so the caller can surface field-level violations and warnings.
func (s *achievementService) Submit(ctx context.Context, userID, id uint) (dto.AchievementResponse, policy.Result, error) {
	ctx, span := s.tracer.Start(ctx, "achievements.submit", trace.WithAttributes(
		attribute.Int64("achievement.id", int64(id)),
		attribute.Int64("user.id", int64(userID)),
	))
	defer span.End()

	unlock := s.locks.Lock(id)
	defer unlock()

	achievement, err := s.achievements.GetByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AchievementResponse{}, policy.Result{}, ErrAchievementNotFound
		}
		return dto.AchievementResponse{}, policy.Result{}, err
	}
	if !achievement.IsEditable() {
		return dto.AchievementResponse{}, policy.Result{}, ErrAchievementNotEditable
	}

	state, err := s.buildStudentState(ctx, userID, achievement.ID)
	if err != nil {
		return dto.AchievementResponse{}, policy.Result{}, err
	}

	result := s.policies.Validate(submissionFromAchievement(achievement), state)
	if !result.Accepted() {
		return dto.AchievementResponse{}, result, ErrEligibilityRejected
	}

	previous := achievement.Status
	achievement.Status = models.AchievementStatusSubmitted
	achievement.Reviews = review.ResetDecisions(achievement.Reviews)

	reviewers, err := s.roster.Get(ctx)
	if err != nil {
		return dto.AchievementResponse{}, policy.Result{}, err
	}
	achievement.Reviews, _ = review.Reconcile(achievement.ID, achievement.Reviews, reviewers)

	if err := s.achievements.Update(ctx, &achievement); err != nil {
		return dto.AchievementResponse{}, policy.Result{}, err
	}
	if err := s.achievements.ReplaceReviews(ctx, achievement.ID, achievement.Reviews); err != nil {
		return dto.AchievementResponse{}, policy.Result{}, err
	}

	if previous != achievement.Status {
		s.events.PublishStatusChanged(AchievementStatusEvent{
			AchievementID:  achievement.ID,
			UserID:         achievement.UserID,
			PreviousStatus: previous,
			Status:         achievement.Status,
			OccurredAt:     s.now(),
		})
	}

	s.logger.Info().Uint("achievement_id", achievement.ID).Int("reviewer_slots", len(achievement.Reviews)).Msg("achievement submitted for review")

	return dto.NewAchievementResponse(achievement), result, nil
}

func (s *achievementService) Delete(ctx context.Context, userID, id uint) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.achievements.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAchievementNotFound
		}
		return err
	}

	s.logger.Info().Uint("achievement_id", id).Uint("user_id", userID).Msg("achievement deleted")
	return nil
}

// Summary aggregates the caller's submitted and approved achievements into
// the capped academic/comprehensive breakdown.
func (s *achievementService) Summary(ctx context.Context, userID uint) (dto.ScoreSummaryResponse, error) {
	achievements, err := s.achievements.List(ctx, repository.AchievementFilter{
		UserID:   &userID,
		Statuses: []string{models.AchievementStatusSubmitted, models.AchievementStatusApproved},
	})
	if err != nil {
		return dto.ScoreSummaryResponse{}, err
	}

	return dto.NewScoreSummaryResponse(scoring.Summarize(achievements)), nil
}

// reconcileRoster refreshes the decision slot list against the active
// reviewer set and persists only when something actually changed.
func (s *achievementService) reconcileRoster(ctx context.Context, achievement models.Achievement) (models.Achievement, error) {
	reviewers, err := s.roster.Get(ctx)
	if err != nil {
		return models.Achievement{}, err
	}

	slots, changed := review.Reconcile(achievement.ID, achievement.Reviews, reviewers)
	if !changed {
		return achievement, nil
	}

	achievement.Reviews = slots
	if err := s.achievements.ReplaceReviews(ctx, achievement.ID, slots); err != nil {
		return models.Achievement{}, err
	}
	return achievement, nil
}

// buildStudentState snapshots the student's other active submissions for
// quota and soft-cap evaluation. The achievement being (re)submitted is
// excluded so resubmission does not count against itself.
func (s *achievementService) buildStudentState(ctx context.Context, userID, excludeID uint) (policy.StudentState, error) {
	achievements, err := s.achievements.List(ctx, repository.AchievementFilter{
		UserID:   &userID,
		Statuses: []string{models.AchievementStatusSubmitted, models.AchievementStatusApproved},
	})
	if err != nil {
		return policy.StudentState{}, err
	}

	active := achievements[:0]
	for _, achievement := range achievements {
		if achievement.ID != excludeID {
			active = append(active, achievement)
		}
	}

	return buildStudentState(active), nil
}

func (s *achievementService) sanitize(text string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(text))
}

// buildStudentState derives quota counters and running bucket totals from a
// student's active achievements.
func buildStudentState(achievements []models.Achievement) policy.StudentState {
	state := policy.StudentState{}

	for _, achievement := range achievements {
		switch achievement.Category {
		case models.CategoryPaper:
			if level, ok := achievement.Metadata["level"].(string); ok && level == "C" {
				state.PaperCTierCount++
			}
		case models.CategoryContest:
			state.CompetitionCount++
			if outside, ok := achievement.Metadata["isOutsideSchoolProject"].(bool); ok && outside {
				state.OutsideSchoolCompetitionCount++
			}
			if workName, ok := achievement.Metadata["workName"].(string); ok && workName != "" {
				state.CompetitionWorkNames = append(state.CompetitionWorkNames, workName)
			}
		}
	}

	summary := scoring.Summarize(achievements)
	state.AcademicScore = summary.CappedAcademicScore
	state.ComprehensiveScore = summary.CappedComprehensiveScore

	return state
}

// submissionFromAchievement adapts a stored achievement into the policy
// engine's input shape. Team members, when present, live under the
// "teamMembers" metadata key.
func submissionFromAchievement(achievement models.Achievement) policy.Submission {
	submission := policy.Submission{
		ItemSlug:   achievement.ItemSlug,
		ObtainedAt: achievement.ObtainedAt,
		Summary:    achievement.Description,
		Metadata:   achievement.Metadata,
	}

	if achievement.EvidenceURL != "" {
		submission.Attachments = []policy.Attachment{{
			URL:  achievement.EvidenceURL,
			Name: achievement.Title,
		}}
	}

	if raw, ok := achievement.Metadata["teamMembers"]; ok {
		if payload, err := json.Marshal(raw); err == nil {
			var members []policy.TeamMember
			if err := json.Unmarshal(payload, &members); err == nil {
				submission.TeamMembers = members
			}
		}
	}

	return submission
}
