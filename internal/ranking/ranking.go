// Package ranking combines capped achievement scores with the GPA-derived
// academic component into the program's deterministic leaderboard.
package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/liuwy-dev/tuimian-go-api/internal/models"
	"github.com/liuwy-dev/tuimian-go-api/internal/scoring"
)

// StudentInfo identifies a ranked student.
type StudentInfo struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	StudentNumber string `json:"student_number"`
	Department    string `json:"department"`
	Major         string `json:"major"`
	Grade         string `json:"grade"`
	ClassName     string `json:"class_name"`
}

// Entry is one student's aggregated position in the leaderboard.
type Entry struct {
	Rank               int              `json:"rank"`
	Student            StudentInfo      `json:"student"`
	AcademicScore      float64          `json:"academic_score"`
	ComprehensiveScore float64          `json:"comprehensive_score"`
	GPAWeightedScore   float64          `json:"gpa_weighted_score"`
	TotalScore         float64          `json:"total_score"`
	GPA                *float64         `json:"gpa,omitempty"`
	GPAScore           *float64         `json:"gpa_score,omitempty"`
	EvidenceURL        string           `json:"evidence_url,omitempty"`
	Details            []scoring.Detail `json:"details"`
	ReasonSummary      string           `json:"reason_summary"`
}

// Candidate bundles one student's inputs to the leaderboard: their identity,
// their approved-only score summary, and their academic record if present.
type Candidate struct {
	Student models.User
	Summary scoring.Summary
	Record  *models.AcademicRecord
}

// Build derives the ordered leaderboard from the candidate set. Sorting is
// total score descending, then capped academic, then capped comprehensive,
// with student id as the final deterministic tie-break. Ranks are strictly
// sequential; ties are not collapsed.
func Build(candidates []Candidate) []Entry {
	entries := make([]Entry, 0, len(candidates))
	for _, candidate := range candidates {
		entries = append(entries, buildEntry(candidate))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		if entries[i].AcademicScore != entries[j].AcademicScore {
			return entries[i].AcademicScore > entries[j].AcademicScore
		}
		if entries[i].ComprehensiveScore != entries[j].ComprehensiveScore {
			return entries[i].ComprehensiveScore > entries[j].ComprehensiveScore
		}
		return entries[i].Student.ID < entries[j].Student.ID
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func buildEntry(candidate Candidate) Entry {
	entry := Entry{
		Student: StudentInfo{
			ID:            candidate.Student.ID,
			Name:          candidate.Student.Name,
			StudentNumber: candidate.Student.StudentNumber,
			Department:    candidate.Student.Department,
			Major:         candidate.Student.Major,
			Grade:         candidate.Student.Grade,
			ClassName:     candidate.Student.ClassName,
		},
		AcademicScore:      candidate.Summary.CappedAcademicScore,
		ComprehensiveScore: candidate.Summary.CappedComprehensiveScore,
		Details:            candidate.Summary.Details,
	}

	var gpaScore float64
	if candidate.Record != nil {
		gpa := candidate.Record.GPA
		gpaScore = scoring.Round2(scoring.Clamp(gpa, 0, scoring.GPAMax) * scoring.GPAScoreMultiplier)
		entry.GPA = &gpa
		score := gpaScore
		entry.GPAScore = &score
		entry.EvidenceURL = candidate.Record.EvidenceURL
	}

	entry.GPAWeightedScore = scoring.Round2(gpaScore * scoring.GPAWeight)
	entry.TotalScore = scoring.Round2(entry.GPAWeightedScore + entry.AcademicScore + entry.ComprehensiveScore)
	entry.ReasonSummary = reasonSummary(candidate.Summary.Details, candidate.Record, gpaScore, entry.GPAWeightedScore)

	return entry
}

// reasonSummary renders the human-readable per-achievement breakdown, one
// clause per counted achievement, plus a trailing GPA clause when a record
// exists.
func reasonSummary(details []scoring.Detail, record *models.AcademicRecord, gpaScore, gpaWeighted float64) string {
	var clauses []string
	for _, detail := range details {
		if detail.AppliedScore <= 0 {
			continue
		}
		clause := fmt.Sprintf("%s（%s，%.2f分", detail.Title, detail.Bucket.Label(), detail.AppliedScore)
		if detail.Notes != "" {
			clause += "，" + detail.Notes
		}
		clause += "）"
		clauses = append(clauses, clause)
	}

	if record != nil {
		clauses = append(clauses, fmt.Sprintf("绩点：%.2f（折算%.2f分，计入%.2f分）", record.GPA, gpaScore, gpaWeighted))
	}

	return strings.Join(clauses, "；")
}
