package dto

import (
	"time"

	"github.com/liuwy-dev/tuimian-go-api/internal/policy"
)

// EligibilityAttachment mirrors one evidence attachment in a check request.
type EligibilityAttachment struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// EligibilityTeamMember mirrors one team member in a check request.
type EligibilityTeamMember struct {
	Name                string   `json:"name"`
	StudentNumber       string   `json:"student_number"`
	Role                string   `json:"role"`
	ContributionPercent *float64 `json:"contribution_percent"`
	IsLeader            bool     `json:"is_leader"`
}

// EligibilityCheckRequest asks whether a prospective submission would be
// accepted, without persisting anything.
type EligibilityCheckRequest struct {
	ItemSlug    string                  `json:"item_slug" validate:"required"`
	ObtainedAt  time.Time               `json:"obtained_at" validate:"required"`
	Summary     string                  `json:"summary"`
	Attachments []EligibilityAttachment `json:"attachments"`
	Metadata    map[string]any          `json:"metadata"`
	TeamMembers []EligibilityTeamMember `json:"team_members"`
}

// ToSubmission converts the request into the policy engine's input type.
func (r EligibilityCheckRequest) ToSubmission() policy.Submission {
	attachments := make([]policy.Attachment, 0, len(r.Attachments))
	for _, attachment := range r.Attachments {
		attachments = append(attachments, policy.Attachment{
			URL:      attachment.URL,
			Name:     attachment.Name,
			MimeType: attachment.MimeType,
			Size:     attachment.Size,
		})
	}

	members := make([]policy.TeamMember, 0, len(r.TeamMembers))
	for _, member := range r.TeamMembers {
		members = append(members, policy.TeamMember{
			Name:                member.Name,
			StudentNumber:       member.StudentNumber,
			Role:                member.Role,
			ContributionPercent: member.ContributionPercent,
			IsLeader:            member.IsLeader,
		})
	}

	return policy.Submission{
		ItemSlug:    r.ItemSlug,
		ObtainedAt:  r.ObtainedAt,
		Summary:     r.Summary,
		Attachments: attachments,
		Metadata:    r.Metadata,
		TeamMembers: members,
	}
}

// EligibilityCheckResponse reports the structured validation outcome.
type EligibilityCheckResponse struct {
	Accepted   bool              `json:"accepted"`
	Violations map[string]string `json:"violations"`
	Warnings   map[string]string `json:"warnings"`
}

// NewEligibilityCheckResponse converts a policy result into a DTO.
func NewEligibilityCheckResponse(result policy.Result) EligibilityCheckResponse {
	return EligibilityCheckResponse{
		Accepted:   result.Accepted(),
		Violations: result.Violations,
		Warnings:   result.Warnings,
	}
}
