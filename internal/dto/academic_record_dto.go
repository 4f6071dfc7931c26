package dto

import (
	"time"

	"github.com/liuwy-dev/tuimian-go-api/internal/models"
)

// AcademicRecordUpsertRequest declares or replaces a student's GPA record.
type AcademicRecordUpsertRequest struct {
	GPA         float64 `json:"gpa" validate:"required,gte=0,lte=4"`
	EvidenceURL string  `json:"evidence_url" validate:"required,url,max=512"`
}

// AcademicRecordResponse is returned when viewing a GPA record.
type AcademicRecordResponse struct {
	UserID      uint      `json:"user_id"`
	GPA         float64   `json:"gpa"`
	Score       float64   `json:"score"`
	EvidenceURL string    `json:"evidence_url"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewAcademicRecordResponse converts an AcademicRecord model into a DTO.
func NewAcademicRecordResponse(model models.AcademicRecord) AcademicRecordResponse {
	return AcademicRecordResponse{
		UserID:      model.UserID,
		GPA:         model.GPA,
		Score:       model.Score,
		EvidenceURL: model.EvidenceURL,
		UpdatedAt:   model.UpdatedAt,
	}
}
