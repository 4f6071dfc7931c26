package dto

import "github.com/liuwy-dev/tuimian-go-api/internal/pdfimport"

// PDFPageRequest carries the extracted text of one transcript page. Text
// extraction happens client side; the server only classifies.
type PDFPageRequest struct {
	PageNumber int    `json:"page_number" validate:"required,gt=0"`
	RawText    string `json:"raw_text" validate:"required"`
}

// PDFImportRequest asks the server to infer achievement drafts from
// extracted transcript pages.
type PDFImportRequest struct {
	Pages []PDFPageRequest `json:"pages" validate:"required,min=1,dive"`
}

// InferredAchievementResponse is one classified candidate achievement.
type InferredAchievementResponse struct {
	Category       string  `json:"category"`
	Known          bool    `json:"known"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	SourcePages    []int   `json:"source_pages"`
	VolunteerHours float64 `json:"volunteer_hours,omitempty"`
	MatchedExcerpt string  `json:"matched_excerpt,omitempty"`
}

// PDFImportResponse lists every inferred candidate in document order.
type PDFImportResponse struct {
	Candidates []InferredAchievementResponse `json:"candidates"`
}

// NewPDFImportResponse converts inference results into a DTO payload.
func NewPDFImportResponse(results []pdfimport.Inferred) PDFImportResponse {
	candidates := make([]InferredAchievementResponse, 0, len(results))
	for _, result := range results {
		candidates = append(candidates, InferredAchievementResponse{
			Category:       string(result.Category),
			Known:          result.Known,
			Title:          result.Title,
			Description:    result.Description,
			SourcePages:    result.SourcePages,
			VolunteerHours: result.VolunteerHours,
			MatchedExcerpt: result.MatchedExcerpt,
		})
	}

	return PDFImportResponse{Candidates: candidates}
}
