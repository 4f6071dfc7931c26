package dto

import "github.com/liuwy-dev/tuimian-go-api/internal/catalog"

// CatalogSearchFilter describes query string filters for browsing catalog
// items.
type CatalogSearchFilter struct {
	Keyword  string `query:"keyword" validate:"omitempty,max=120"`
	Category string `query:"category" validate:"omitempty,max=64"`
	Flag     string `query:"flag" validate:"omitempty,max=64"`
}

// CatalogItemResponse serializes one apply-able catalog entry.
type CatalogItemResponse struct {
	Slug             string   `json:"slug"`
	Category         string   `json:"category"`
	Title            string   `json:"title"`
	ShortDescription string   `json:"short_description"`
	MaxScore         *float64 `json:"max_score"`
	ScoreNote        string   `json:"score_note,omitempty"`
	Flags            []string `json:"flags"`
	Keywords         []string `json:"keywords"`
}

// NewCatalogItemResponse converts a catalog item into a DTO.
func NewCatalogItemResponse(item catalog.Item) CatalogItemResponse {
	flags := make([]string, 0, len(item.Flags))
	for _, flag := range item.Flags {
		flags = append(flags, string(flag))
	}

	return CatalogItemResponse{
		Slug:             item.Slug,
		Category:         string(item.Category),
		Title:            item.Title,
		ShortDescription: item.ShortDescription,
		MaxScore:         item.MaxScore,
		ScoreNote:        item.ScoreNote,
		Flags:            flags,
		Keywords:         item.Keywords,
	}
}

// NewCatalogItemResponseSlice converts catalog items into DTOs.
func NewCatalogItemResponseSlice(items []catalog.Item) []CatalogItemResponse {
	responses := make([]CatalogItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewCatalogItemResponse(item))
	}

	return responses
}
