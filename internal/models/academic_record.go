package models

import "time"

// AcademicRecord stores a student's GPA and its evidence. At most one record
// exists per student; it drives the GPA-weighted ranking component.
type AcademicRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	GPA         float64   `gorm:"not null" json:"gpa"`
	Score       float64   `gorm:"not null" json:"score"`
	EvidenceURL string    `gorm:"size:512;not null" json:"evidence_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
