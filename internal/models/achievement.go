package models

import (
	"time"

	"gorm.io/datatypes"
)

// AchievementCategory is the closed set of scoreable accomplishment kinds.
type AchievementCategory string

// Achievement categories. Adding a category means extending the score
// calculator's switch as well; there is no fallback branch.
const (
	CategoryPaper      AchievementCategory = "paper"
	CategoryPatent     AchievementCategory = "patent"
	CategoryContest    AchievementCategory = "contest"
	CategoryInnovation AchievementCategory = "innovation"
	CategoryVolunteer  AchievementCategory = "volunteer"
	CategoryHonor      AchievementCategory = "honor"
	CategorySocial     AchievementCategory = "social"
	CategorySports     AchievementCategory = "sports"
)

// Categories lists every known achievement category.
func Categories() []AchievementCategory {
	return []AchievementCategory{
		CategoryPaper, CategoryPatent, CategoryContest, CategoryInnovation,
		CategoryVolunteer, CategoryHonor, CategorySocial, CategorySports,
	}
}

// IsValidCategory reports whether value names a known category.
func IsValidCategory(value string) bool {
	for _, category := range Categories() {
		if string(category) == value {
			return true
		}
	}
	return false
}

// Achievement lifecycle statuses. The overall status is always derived from
// the review decisions, never set directly by a reviewer.
const (
	AchievementStatusDraft     = "draft"
	AchievementStatusSubmitted = "submitted"
	AchievementStatusApproved  = "approved"
	AchievementStatusRejected  = "rejected"
)

// Achievement is a student's claimed accomplishment subject to scoring and
// multi-reviewer consensus.
type Achievement struct {
	ID          uint                `gorm:"primaryKey" json:"id"`
	UserID      uint                `gorm:"not null;index" json:"user_id"`
	Title       string              `gorm:"size:255;not null" json:"title"`
	Category    AchievementCategory `gorm:"size:32;not null" json:"category"`
	ItemSlug    string              `gorm:"size:160;index" json:"item_slug"`
	ObtainedAt  time.Time           `gorm:"not null;index" json:"obtained_at"`
	Score       float64             `gorm:"not null;default:0" json:"score"`
	Description string              `gorm:"type:text" json:"description"`
	EvidenceURL string              `gorm:"size:512" json:"evidence_url"`
	Status      string              `gorm:"size:32;not null;default:draft" json:"status"`
	Metadata    datatypes.JSONMap   `gorm:"type:json" json:"metadata"`
	Reviews     []ReviewDecision    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"reviews"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	User        User                `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// IsEditable reports whether the owner may still modify the achievement.
func (a Achievement) IsEditable() bool {
	return a.Status == AchievementStatusDraft || a.Status == AchievementStatusSubmitted
}

// ReviewDecision is one reviewer's verdict slot on one achievement. Reviewer
// name and student number are snapshotted at assignment time so historical
// verdicts survive account changes.
type ReviewDecision struct {
	ID                    uint       `gorm:"primaryKey" json:"-"`
	AchievementID         uint       `gorm:"not null;index:idx_review_slot,unique" json:"-"`
	ReviewerID            uint       `gorm:"not null;index:idx_review_slot,unique" json:"reviewer_id"`
	ReviewerName          string     `gorm:"size:255;not null" json:"reviewer_name"`
	ReviewerStudentNumber string     `gorm:"size:32;not null" json:"reviewer_student_number"`
	Status                string     `gorm:"size:32;not null;default:submitted" json:"status"`
	Comment               string     `gorm:"type:text" json:"comment"`
	ReviewedAt            *time.Time `json:"reviewed_at"`
	CreatedAt             time.Time  `json:"-"`
	UpdatedAt             time.Time  `json:"-"`
}

// Verdict statuses for a single review decision slot.
const (
	ReviewStatusSubmitted = "submitted"
	ReviewStatusApproved  = "approved"
	ReviewStatusRejected  = "rejected"
)
