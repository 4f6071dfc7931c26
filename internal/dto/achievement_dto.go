package dto

import (
	"time"

	"github.com/liuwy-dev/tuimian-go-api/internal/models"
	"github.com/liuwy-dev/tuimian-go-api/internal/scoring"
)

// AchievementCreateRequest describes the payload for declaring an achievement.
type AchievementCreateRequest struct {
	Title       string         `json:"title" validate:"required,min=2,max=255"`
	Category    string         `json:"category" validate:"required"`
	ItemSlug    string         `json:"item_slug" validate:"omitempty,max=160"`
	ObtainedAt  time.Time      `json:"obtained_at" validate:"required"`
	Description string         `json:"description" validate:"omitempty,max=2000"`
	EvidenceURL string         `json:"evidence_url" validate:"omitempty,url,max=512"`
	Metadata    map[string]any `json:"metadata"`
}

// AchievementUpdateRequest carries partial edits to an existing achievement.
// Any accepted edit resets every reviewer verdict on the achievement.
type AchievementUpdateRequest struct {
	Title       *string        `json:"title" validate:"omitempty,min=2,max=255"`
	Category    *string        `json:"category"`
	ItemSlug    *string        `json:"item_slug" validate:"omitempty,max=160"`
	ObtainedAt  *time.Time     `json:"obtained_at"`
	Description *string        `json:"description" validate:"omitempty,max=2000"`
	EvidenceURL *string        `json:"evidence_url" validate:"omitempty,url,max=512"`
	Metadata    map[string]any `json:"metadata"`
}

// AchievementFilter describes query string filters for listing achievements.
type AchievementFilter struct {
	Status *string `query:"status" validate:"omitempty,oneof=draft submitted approved rejected"`
}

// ReviewDecisionResponse serializes one reviewer's verdict slot.
type ReviewDecisionResponse struct {
	ReviewerID            uint       `json:"reviewer_id"`
	ReviewerName          string     `json:"reviewer_name"`
	ReviewerStudentNumber string     `json:"reviewer_student_number"`
	Status                string     `json:"status"`
	Comment               string     `json:"comment"`
	ReviewedAt            *time.Time `json:"reviewed_at"`
}

// AchievementResponse is returned to API clients when viewing achievements.
type AchievementResponse struct {
	ID          uint                     `json:"id"`
	UserID      uint                     `json:"user_id"`
	Title       string                   `json:"title"`
	Category    string                   `json:"category"`
	ItemSlug    string                   `json:"item_slug"`
	ObtainedAt  time.Time                `json:"obtained_at"`
	Score       float64                  `json:"score"`
	Description string                   `json:"description"`
	EvidenceURL string                   `json:"evidence_url"`
	Status      string                   `json:"status"`
	Metadata    map[string]any           `json:"metadata"`
	Reviews     []ReviewDecisionResponse `json:"reviews"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// NewAchievementResponse converts an Achievement model into a DTO.
func NewAchievementResponse(model models.Achievement) AchievementResponse {
	response := AchievementResponse{
		ID:          model.ID,
		UserID:      model.UserID,
		Title:       model.Title,
		Category:    string(model.Category),
		ItemSlug:    model.ItemSlug,
		ObtainedAt:  model.ObtainedAt,
		Score:       model.Score,
		Description: model.Description,
		EvidenceURL: model.EvidenceURL,
		Status:      model.Status,
		Metadata:    model.Metadata,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}

	if len(model.Reviews) > 0 {
		reviews := make([]ReviewDecisionResponse, 0, len(model.Reviews))
		for _, review := range model.Reviews {
			reviews = append(reviews, ReviewDecisionResponse{
				ReviewerID:            review.ReviewerID,
				ReviewerName:          review.ReviewerName,
				ReviewerStudentNumber: review.ReviewerStudentNumber,
				Status:                review.Status,
				Comment:               review.Comment,
				ReviewedAt:            review.ReviewedAt,
			})
		}
		response.Reviews = reviews
	}

	return response
}

// NewAchievementResponseSlice converts achievement models into DTOs.
func NewAchievementResponseSlice(models []models.Achievement) []AchievementResponse {
	responses := make([]AchievementResponse, 0, len(models))
	for _, achievement := range models {
		responses = append(responses, NewAchievementResponse(achievement))
	}

	return responses
}

// ScoreDetailResponse serializes one achievement's contribution to the capped
// score summary.
type ScoreDetailResponse struct {
	AchievementID uint    `json:"achievement_id"`
	Title         string  `json:"title"`
	Category      string  `json:"category"`
	Bucket        string  `json:"bucket"`
	RawScore      float64 `json:"raw_score"`
	AppliedScore  float64 `json:"applied_score"`
	Notes         string  `json:"notes,omitempty"`
}

// ScoreSummaryResponse serializes the capped per-bucket score totals.
type ScoreSummaryResponse struct {
	AcademicScore      float64               `json:"academic_score"`
	ComprehensiveScore float64               `json:"comprehensive_score"`
	TotalScore         float64               `json:"total_score"`
	Details            []ScoreDetailResponse `json:"details"`
}

// NewScoreSummaryResponse converts a scoring summary into a DTO.
func NewScoreSummaryResponse(summary scoring.Summary) ScoreSummaryResponse {
	details := make([]ScoreDetailResponse, 0, len(summary.Details))
	for _, detail := range summary.Details {
		details = append(details, ScoreDetailResponse{
			AchievementID: detail.AchievementID,
			Title:         detail.Title,
			Category:      string(detail.Category),
			Bucket:        detail.Bucket.Label(),
			RawScore:      detail.RawScore,
			AppliedScore:  detail.AppliedScore,
			Notes:         detail.Notes,
		})
	}

	return ScoreSummaryResponse{
		AcademicScore:      summary.AcademicScore,
		ComprehensiveScore: summary.ComprehensiveScore,
		TotalScore:         summary.TotalScore,
		Details:            details,
	}
}
