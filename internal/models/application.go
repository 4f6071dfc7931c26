package models

import "time"

// Application statuses.
const (
	ApplicationStatusDraft     = "draft"
	ApplicationStatusSubmitted = "submitted"
)

// Application is the student's overall program application: a personal
// statement and study plan submitted alongside individual achievements.
type Application struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	UserID            uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	Status            string     `gorm:"size:32;not null;default:draft" json:"status"`
	PersonalStatement string     `gorm:"type:text" json:"personal_statement"`
	Plan              string     `gorm:"type:text" json:"plan"`
	ReviewerRemarks   string     `gorm:"type:text" json:"reviewer_remarks"`
	LastSubmittedAt   *time.Time `json:"last_submitted_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
