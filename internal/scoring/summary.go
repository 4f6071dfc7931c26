package scoring

import (
	"sort"

	"github.com/liuwy-dev/tuimian-go-api/internal/models"
)

// Detail itemizes one achievement's contribution to a score summary.
type Detail struct {
	AchievementID uint                       `json:"achievement_id"`
	Title         string                     `json:"title"`
	Category      models.AchievementCategory `json:"category"`
	RawScore      float64                    `json:"raw_score"`
	AppliedScore  float64                    `json:"applied_score"`
	Bucket        Bucket                     `json:"bucket"`
	Notes         string                     `json:"notes,omitempty"`
}

// Summary is a student's capped score breakdown. It is derived on every call
// and never stored as authoritative state.
type Summary struct {
	AcademicScore            float64  `json:"academic_score"`
	ComprehensiveScore       float64  `json:"comprehensive_score"`
	CappedAcademicScore      float64  `json:"capped_academic_score"`
	CappedComprehensiveScore float64  `json:"capped_comprehensive_score"`
	TotalScore               float64  `json:"total_score"`
	Details                  []Detail `json:"details"`
}

// Summarize folds achievements into the two capped buckets. Points are
// consumed in obtained-date order: each achievement's applied score is the
// raw score clipped to whatever headroom its bucket has left, so items past
// the cap contribute partially or not at all. The input slice is not mutated.
func Summarize(achievements []models.Achievement) Summary {
	ordered := make([]models.Achievement, len(achievements))
	copy(ordered, achievements)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].ObtainedAt.Equal(ordered[j].ObtainedAt) {
			return ordered[i].ObtainedAt.Before(ordered[j].ObtainedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	var academic, comprehensive float64
	details := make([]Detail, 0, len(ordered))

	for _, achievement := range ordered {
		base := CalculateBase(achievement.Category, achievement.Metadata)

		var applied float64
		if base.Bucket == BucketAcademic {
			applied = minFloat(base.RawScore, AcademicScoreCap-academic)
			academic = minFloat(academic+base.RawScore, AcademicScoreCap)
		} else {
			applied = minFloat(base.RawScore, ComprehensiveScoreCap-comprehensive)
			comprehensive = minFloat(comprehensive+base.RawScore, ComprehensiveScoreCap)
		}
		if applied < 0 {
			applied = 0
		}

		details = append(details, Detail{
			AchievementID: achievement.ID,
			Title:         achievement.Title,
			Category:      achievement.Category,
			RawScore:      Round2(base.RawScore),
			AppliedScore:  Round2(applied),
			Bucket:        base.Bucket,
			Notes:         base.Notes,
		})
	}

	return Summary{
		AcademicScore:            Round2(academic),
		ComprehensiveScore:       Round2(comprehensive),
		CappedAcademicScore:      Round2(minFloat(academic, AcademicScoreCap)),
		CappedComprehensiveScore: Round2(minFloat(comprehensive, ComprehensiveScoreCap)),
		TotalScore:               Round2(minFloat(academic, AcademicScoreCap) + minFloat(comprehensive, ComprehensiveScoreCap)),
		Details:                  details,
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
