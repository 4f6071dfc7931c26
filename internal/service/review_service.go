package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/liuwy-dev/tuimian-go-api/internal/dto"
	"github.com/liuwy-dev/tuimian-go-api/internal/models"
	"github.com/liuwy-dev/tuimian-go-api/internal/observability"
	"github.com/liuwy-dev/tuimian-go-api/internal/repository"
	"github.com/liuwy-dev/tuimian-go-api/internal/review"
)

// ErrAchievementNotReviewable indicates the achievement is still a draft and
// has not entered the review workflow.
var ErrAchievementNotReviewable = errors.New("achievement is not in review")

// ReviewService owns the reviewer-facing consensus workflow.
type ReviewService interface {
	Queue(ctx context.Context, reviewerID uint, filter dto.ReviewQueueFilter) ([]dto.AchievementResponse, error)
	Get(ctx context.Context, id uint) (dto.AchievementResponse, error)
	Decide(ctx context.Context, reviewerID, achievementID uint, req dto.ReviewVerdictRequest) (dto.AchievementResponse, error)
}

type reviewService struct {
	achievements repository.AchievementRepository
	roster       *review.RosterCache
	validate     *validator.Validate
	events       EventPublisher
	sanitizer    *bluemonday.Policy
	locks        *keyedMutex
	tracer       trace.Tracer
	logger       zerolog.Logger
	now          func() time.Time
}

// NewReviewService constructs the reviewer workflow service.
func NewReviewService(
	achievements repository.AchievementRepository,
	roster *review.RosterCache,
	validate *validator.Validate,
	events EventPublisher,
	logger zerolog.Logger,
) ReviewService {
	return &reviewService{
		achievements: achievements,
		roster:       roster,
		validate:     validate,
		events:       events,
		sanitizer:    bluemonday.StrictPolicy(),
		locks:        newKeyedMutex(),
		tracer:       otel.Tracer("github.com/liuwy-dev/tuimian-go-api/internal/service/review"),
		logger:       logger.With().Str("component", "review_service").Logger(),
		now:          time.Now,
	}
}

// Queue lists achievements awaiting consensus. With pending=true only the
// ones this reviewer has not yet ruled on are returned.
func (s *reviewService) Queue(ctx context.Context, reviewerID uint, filter dto.ReviewQueueFilter) ([]dto.AchievementResponse, error) {
	achievements, err := s.achievements.List(ctx, repository.AchievementFilter{
		Statuses: []string{models.AchievementStatusSubmitted},
	})
	if err != nil {
		return nil, err
	}

	pendingOnly := filter.Pending != nil && *filter.Pending
	responses := make([]dto.AchievementResponse, 0, len(achievements))
	for _, achievement := range achievements {
		if pendingOnly && !awaitsVerdict(achievement, reviewerID) {
			continue
		}
		responses = append(responses, dto.NewAchievementResponse(achievement))
	}
	return responses, nil
}

func (s *reviewService) Get(ctx context.Context, id uint) (dto.AchievementResponse, error) {
	achievement, err := s.loadReviewable(ctx, id)
	if err != nil {
		return dto.AchievementResponse{}, err
	}

	reviewers, err := s.roster.Get(ctx)
	if err != nil {
		return dto.AchievementResponse{}, err
	}

	slots, changed := review.Reconcile(achievement.ID, achievement.Reviews, reviewers)
	if changed {
		if err := s.achievements.ReplaceReviews(ctx, achievement.ID, slots); err != nil {
			return dto.AchievementResponse{}, err
		}
		achievement.Reviews = slots
	}

	return dto.NewAchievementResponse(achievement), nil
}

// Decide records one reviewer's verdict and recomputes the derived status.
// The whole read-reconcile-apply-write cycle runs under the achievement's
// lock so racing verdicts cannot clobber each other's slots.
func (s *reviewService) Decide(ctx context.Context, reviewerID, achievementID uint, req dto.ReviewVerdictRequest) (dto.AchievementResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.AchievementResponse{}, err
	}

	ctx, span := s.tracer.Start(ctx, "reviews.decide", trace.WithAttributes(
		attribute.Int64("achievement.id", int64(achievementID)),
		attribute.Int64("reviewer.id", int64(reviewerID)),
		attribute.String("verdict", req.Status),
	))
	defer span.End()

	unlock := s.locks.Lock(achievementID)
	defer unlock()

	achievement, err := s.loadReviewable(ctx, achievementID)
	if err != nil {
		return dto.AchievementResponse{}, err
	}

	reviewers, err := s.roster.Get(ctx)
	if err != nil {
		return dto.AchievementResponse{}, err
	}
	slots, _ := review.Reconcile(achievement.ID, achievement.Reviews, reviewers)

	comment := strings.TrimSpace(s.sanitizer.Sanitize(req.Comment))
	slots, err = review.ApplyVerdict(slots, reviewerID, req.Status, comment, s.now())
	if err != nil {
		return dto.AchievementResponse{}, err
	}

	previous := achievement.Status
	achievement.Reviews = slots
	achievement.Status = review.DeriveOverallStatus(slots)

	if err := s.achievements.ReplaceReviews(ctx, achievement.ID, slots); err != nil {
		return dto.AchievementResponse{}, err
	}
	if achievement.Status != previous {
		if err := s.achievements.Update(ctx, &achievement); err != nil {
			return dto.AchievementResponse{}, err
		}
		s.events.PublishStatusChanged(AchievementStatusEvent{
			AchievementID:  achievement.ID,
			UserID:         achievement.UserID,
			PreviousStatus: previous,
			Status:         achievement.Status,
			OccurredAt:     s.now(),
		})
	}

	observability.ReviewVerdicts().WithLabelValues(req.Status).Inc()
	s.logger.Info().
		Uint("achievement_id", achievement.ID).
		Uint("reviewer_id", reviewerID).
		Str("verdict", req.Status).
		Str("derived_status", achievement.Status).
		Msg("review verdict recorded")

	return dto.NewAchievementResponse(achievement), nil
}

func (s *reviewService) loadReviewable(ctx context.Context, id uint) (models.Achievement, error) {
	achievement, err := s.achievements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Achievement{}, ErrAchievementNotFound
		}
		return models.Achievement{}, err
	}
	if achievement.Status == models.AchievementStatusDraft {
		return models.Achievement{}, ErrAchievementNotReviewable
	}
	return achievement, nil
}

func awaitsVerdict(achievement models.Achievement, reviewerID uint) bool {
	for _, slot := range achievement.Reviews {
		if slot.ReviewerID == reviewerID {
			return slot.Status == models.ReviewStatusSubmitted
		}
	}
	// No slot yet: reconciliation on open will create one in pending state.
	return true
}
