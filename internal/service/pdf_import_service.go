package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/liuwy-dev/tuimian-go-api/internal/dto"
	"github.com/liuwy-dev/tuimian-go-api/internal/models"
	"github.com/liuwy-dev/tuimian-go-api/internal/pdfimport"
	"github.com/liuwy-dev/tuimian-go-api/pkg/ai"
)

// aiConfidenceFloor is the minimum model confidence accepted when refining
// an unclassified paragraph.
const aiConfidenceFloor = 0.6

// PDFImportService turns extracted transcript pages into candidate
// achievement drafts. A model-backed classifier, when configured, gets a
// second look at paragraphs the keyword rules could not place.
type PDFImportService interface {
	Infer(ctx context.Context, req dto.PDFImportRequest) (dto.PDFImportResponse, error)
}

type pdfImportService struct {
	classifier ai.Classifier
	validate   *validator.Validate
	logger     zerolog.Logger
}

// NewPDFImportService constructs the import service. classifier may be nil.
func NewPDFImportService(classifier ai.Classifier, validate *validator.Validate, logger zerolog.Logger) PDFImportService {
	return &pdfImportService{
		classifier: classifier,
		validate:   validate,
		logger:     logger.With().Str("component", "pdf_import_service").Logger(),
	}
}

func (s *pdfImportService) Infer(ctx context.Context, req dto.PDFImportRequest) (dto.PDFImportResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.PDFImportResponse{}, err
	}

	pages := make([]pdfimport.PageText, 0, len(req.Pages))
	for _, page := range req.Pages {
		pages = append(pages, pdfimport.PageText{
			PageNumber: page.PageNumber,
			RawText:    page.RawText,
		})
	}

	results := pdfimport.Infer(pages)

	if s.classifier != nil {
		s.refineUnknown(ctx, results)
	}

	return dto.NewPDFImportResponse(results), nil
}

func (s *pdfImportService) refineUnknown(ctx context.Context, results []pdfimport.Inferred) {
	categories := make([]string, 0, len(models.Categories()))
	for _, category := range models.Categories() {
		categories = append(categories, string(category))
	}

	for i := range results {
		if results[i].Known {
			continue
		}

		verdict, err := s.classifier.Classify(ctx, ai.ClassificationInput{
			Paragraph:  results[i].Description,
			Categories: categories,
		})
		if err != nil {
			s.logger.Warn().Err(err).Msg("ai classification failed, keeping paragraph unclassified")
			continue
		}
		if verdict.Category == "" || verdict.Confidence < aiConfidenceFloor {
			continue
		}

		results[i].Category = models.AchievementCategory(verdict.Category)
		results[i].Known = true
	}
}
