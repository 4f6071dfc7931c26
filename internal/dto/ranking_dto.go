package dto

import "github.com/liuwy-dev/tuimian-go-api/internal/ranking"

// RankingEntryResponse serializes one leaderboard row.
type RankingEntryResponse struct {
	Rank               int                   `json:"rank"`
	Student            ranking.StudentInfo   `json:"student"`
	AcademicScore      float64               `json:"academic_score"`
	ComprehensiveScore float64               `json:"comprehensive_score"`
	GPAWeightedScore   float64               `json:"gpa_weighted_score"`
	TotalScore         float64               `json:"total_score"`
	GPA                *float64              `json:"gpa,omitempty"`
	GPAScore           *float64              `json:"gpa_score,omitempty"`
	Details            []ScoreDetailResponse `json:"details"`
	ReasonSummary      string                `json:"reason_summary"`
}

// RankingResponse is the full leaderboard payload, annotated with whether it
// was served from the snapshot cache.
type RankingResponse struct {
	Entries []RankingEntryResponse `json:"entries"`
	Cached  bool                   `json:"cached"`
}

// NewRankingEntryResponse converts one leaderboard entry into a DTO.
func NewRankingEntryResponse(entry ranking.Entry) RankingEntryResponse {
	details := make([]ScoreDetailResponse, 0, len(entry.Details))
	for _, detail := range entry.Details {
		details = append(details, ScoreDetailResponse{
			AchievementID: detail.AchievementID,
			Title:         detail.Title,
			Category:      string(detail.Category),
			Bucket:        detail.Bucket.Label(),
			RawScore:      detail.RawScore,
			AppliedScore:  detail.AppliedScore,
			Notes:         detail.Notes,
		})
	}

	return RankingEntryResponse{
		Rank:               entry.Rank,
		Student:            entry.Student,
		AcademicScore:      entry.AcademicScore,
		ComprehensiveScore: entry.ComprehensiveScore,
		GPAWeightedScore:   entry.GPAWeightedScore,
		TotalScore:         entry.TotalScore,
		GPA:                entry.GPA,
		GPAScore:           entry.GPAScore,
		Details:            details,
		ReasonSummary:      entry.ReasonSummary,
	}
}

// RankingExportRowResponse is one flat leaderboard row for the spreadsheet
// exporter. Column order and Chinese headers live in the exporter; this feed
// only guarantees the values, rounded to two decimals by the aggregator.
type RankingExportRowResponse struct {
	Rank               int      `json:"rank"`
	Name               string   `json:"name"`
	StudentNumber      string   `json:"student_number"`
	Department         string   `json:"department"`
	Major              string   `json:"major"`
	Grade              string   `json:"grade"`
	ClassName          string   `json:"class_name"`
	AcademicScore      float64  `json:"academic_score"`
	ComprehensiveScore float64  `json:"comprehensive_score"`
	GPA                *float64 `json:"gpa,omitempty"`
	GPAScore           *float64 `json:"gpa_score,omitempty"`
	GPAWeightedScore   float64  `json:"gpa_weighted_score"`
	TotalScore         float64  `json:"total_score"`
	ReasonSummary      string   `json:"reason_summary"`
	EvidenceURL        string   `json:"evidence_url,omitempty"`
}

// NewRankingExportRows flattens leaderboard entries into export rows.
func NewRankingExportRows(entries []ranking.Entry) []RankingExportRowResponse {
	rows := make([]RankingExportRowResponse, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, RankingExportRowResponse{
			Rank:               entry.Rank,
			Name:               entry.Student.Name,
			StudentNumber:      entry.Student.StudentNumber,
			Department:         entry.Student.Department,
			Major:              entry.Student.Major,
			Grade:              entry.Student.Grade,
			ClassName:          entry.Student.ClassName,
			AcademicScore:      entry.AcademicScore,
			ComprehensiveScore: entry.ComprehensiveScore,
			GPA:                entry.GPA,
			GPAScore:           entry.GPAScore,
			GPAWeightedScore:   entry.GPAWeightedScore,
			TotalScore:         entry.TotalScore,
			ReasonSummary:      entry.ReasonSummary,
			EvidenceURL:        entry.EvidenceURL,
		})
	}
	return rows
}

// NewRankingResponse converts the leaderboard into a DTO payload.
func NewRankingResponse(entries []ranking.Entry, cached bool) RankingResponse {
	rows := make([]RankingEntryResponse, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, NewRankingEntryResponse(entry))
	}

	return RankingResponse{Entries: rows, Cached: cached}
}
