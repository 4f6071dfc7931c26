package review

import (
	"errors"
	"strings"
	"time"

	"github.com/liuwy-dev/tuimian-go-api/internal/models"
)

// ErrCommentRequired indicates a rejection verdict without an explanation.
var ErrCommentRequired = errors.New("rejection requires a comment")

// ErrInvalidVerdict indicates a verdict outside approved/rejected.
var ErrInvalidVerdict = errors.New("invalid verdict status")

// ErrReviewerSlotNotFound indicates the reviewer has no decision slot on the
// achievement, typically because the roster has not been reconciled yet.
var ErrReviewerSlotNotFound = errors.New("reviewer decision slot not found")

// Reconcile aligns an achievement's decision slots with the active reviewer
// set. Every active reviewer without a slot gets a fresh one in submitted
// state; slots whose denormalized reviewer identity drifted are refreshed.
// Slots belonging to reviewers no longer active are kept untouched: historical
// verdicts are never pruned, even after the account is deactivated. The input
// slice is not mutated; the second return value reports whether anything
// changed and a write is needed.
func Reconcile(achievementID uint, slots []models.ReviewDecision, reviewers []Reviewer) ([]models.ReviewDecision, bool) {
	next := make([]models.ReviewDecision, len(slots))
	copy(next, slots)

	bySlot := make(map[uint]int, len(next))
	for i, slot := range next {
		bySlot[slot.ReviewerID] = i
	}

	changed := false
	for _, reviewer := range reviewers {
		idx, exists := bySlot[reviewer.ID]
		if !exists {
			next = append(next, models.ReviewDecision{
				AchievementID:         achievementID,
				ReviewerID:            reviewer.ID,
				ReviewerName:          reviewer.Name,
				ReviewerStudentNumber: reviewer.StudentNumber,
				Status:                models.ReviewStatusSubmitted,
			})
			changed = true
			continue
		}
		if next[idx].ReviewerName != reviewer.Name || next[idx].ReviewerStudentNumber != reviewer.StudentNumber {
			next[idx].ReviewerName = reviewer.Name
			next[idx].ReviewerStudentNumber = reviewer.StudentNumber
			changed = true
		}
	}

	return next, changed
}

// ApplyVerdict sets the calling reviewer's own slot to approved or rejected
// and stamps the verdict time. Rejections must carry a non-empty comment.
// Returns a new slice; the input is not mutated.
func ApplyVerdict(slots []models.ReviewDecision, reviewerID uint, status, comment string, at time.Time) ([]models.ReviewDecision, error) {
	if status != models.ReviewStatusApproved && status != models.ReviewStatusRejected {
		return nil, ErrInvalidVerdict
	}
	if status == models.ReviewStatusRejected && strings.TrimSpace(comment) == "" {
		return nil, ErrCommentRequired
	}

	next := make([]models.ReviewDecision, len(slots))
	copy(next, slots)

	for i := range next {
		if next[i].ReviewerID != reviewerID {
			continue
		}
		next[i].Status = status
		next[i].Comment = strings.TrimSpace(comment)
		reviewedAt := at
		next[i].ReviewedAt = &reviewedAt
		return next, nil
	}

	return nil, ErrReviewerSlotNotFound
}

// DeriveOverallStatus folds the decision slots into the achievement's single
// derived status. An empty slot list means the review has not started; one
// rejection is an absolute veto; approval requires every slot to approve.
func DeriveOverallStatus(slots []models.ReviewDecision) string {
	if len(slots) == 0 {
		return models.AchievementStatusSubmitted
	}

	allApproved := true
	for _, slot := range slots {
		switch slot.Status {
		case models.ReviewStatusRejected:
			return models.AchievementStatusRejected
		case models.ReviewStatusApproved:
		default:
			allApproved = false
		}
	}

	if allApproved {
		return models.AchievementStatusApproved
	}
	return models.AchievementStatusSubmitted
}

// ResetDecisions returns the slots with every verdict cleared back to the
// submitted state. Used when the owner edits an achievement: a material edit
// always restarts consensus from zero.
func ResetDecisions(slots []models.ReviewDecision) []models.ReviewDecision {
	next := make([]models.ReviewDecision, len(slots))
	copy(next, slots)
	for i := range next {
		next[i].Status = models.ReviewStatusSubmitted
		next[i].Comment = ""
		next[i].ReviewedAt = nil
	}
	return next
}
