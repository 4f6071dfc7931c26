package dto

import (
	"time"

	"github.com/liuwy-dev/tuimian-go-api/internal/models"
)

// ApplicationUpdateRequest edits the student's personal statement and plan
// while the application is still a draft.
type ApplicationUpdateRequest struct {
	PersonalStatement *string `json:"personal_statement" validate:"omitempty,max=5000"`
	Plan              *string `json:"plan" validate:"omitempty,max=5000"`
}

// ApplicationResponse is returned when viewing the program application.
type ApplicationResponse struct {
	ID                uint       `json:"id"`
	UserID            uint       `json:"user_id"`
	Status            string     `json:"status"`
	PersonalStatement string     `json:"personal_statement"`
	Plan              string     `json:"plan"`
	ReviewerRemarks   string     `json:"reviewer_remarks"`
	LastSubmittedAt   *time.Time `json:"last_submitted_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewApplicationResponse converts an Application model into a DTO.
func NewApplicationResponse(model models.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:                model.ID,
		UserID:            model.UserID,
		Status:            model.Status,
		PersonalStatement: model.PersonalStatement,
		Plan:              model.Plan,
		ReviewerRemarks:   model.ReviewerRemarks,
		LastSubmittedAt:   model.LastSubmittedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}
