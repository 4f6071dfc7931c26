package models

import "time"

// User represents an account in the recommendation program, either a student
// submitting achievements or a reviewer adjudicating them.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	StudentNumber string    `gorm:"size:32;uniqueIndex;not null" json:"student_number"`
	Role          string    `gorm:"size:32;not null;default:student" json:"role"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	Department    string    `gorm:"size:255" json:"department"`
	Major         string    `gorm:"size:255" json:"major"`
	Grade         string    `gorm:"size:32" json:"grade"`
	ClassName     string    `gorm:"size:64" json:"class_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

const (
	// RoleStudent marks accounts that own achievements.
	RoleStudent = "student"
	// RoleReviewer marks accounts that adjudicate achievements.
	RoleReviewer = "reviewer"
)

// IsReviewer reports whether the account belongs to the reviewer pool.
func (u User) IsReviewer() bool {
	return u.Role == RoleReviewer
}
