package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/liuwy-dev/tuimian-go-api/internal/dto"
	"github.com/liuwy-dev/tuimian-go-api/internal/models"
	"github.com/liuwy-dev/tuimian-go-api/pkg/ai"
)

type stubClassifier struct {
	result ai.ClassificationResult
	err    error
	calls  int
}

func (s *stubClassifier) Classify(_ context.Context, _ ai.ClassificationInput) (ai.ClassificationResult, error) {
	s.calls++
	return s.result, s.err
}

func TestPDFImportServiceInferClassifiesPages(t *testing.T) {
	svc := NewPDFImportService(nil, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	resp, err := svc.Infer(context.Background(), dto.PDFImportRequest{
		Pages: []dto.PDFPageRequest{
			{PageNumber: 1, RawText: "发表论文《图神经网络的可解释性研究》，CCF-B 类期刊。\n\n累计志愿服务 230.5 小时，获校级表彰。"},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Candidates, 2)
	require.Equal(t, string(models.CategoryPaper), resp.Candidates[0].Category)
	require.Equal(t, string(models.CategoryVolunteer), resp.Candidates[1].Category)
	require.Equal(t, 230.5, resp.Candidates[1].VolunteerHours)
}

func TestPDFImportServiceInferRefinesUnknownWithClassifier(t *testing.T) {
	classifier := &stubClassifier{result: ai.ClassificationResult{Category: "sports", Confidence: 0.9}}
	svc := NewPDFImportService(classifier, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	resp, err := svc.Infer(context.Background(), dto.PDFImportRequest{
		Pages: []dto.PDFPageRequest{
			{PageNumber: 1, RawText: "参加校园百公里毅行活动并完赛。"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, classifier.calls)
	require.Len(t, resp.Candidates, 1)
	require.True(t, resp.Candidates[0].Known)
	require.Equal(t, "sports", resp.Candidates[0].Category)
}

func TestPDFImportServiceInferIgnoresLowConfidenceVerdicts(t *testing.T) {
	classifier := &stubClassifier{result: ai.ClassificationResult{Category: "sports", Confidence: 0.3}}
	svc := NewPDFImportService(classifier, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	resp, err := svc.Infer(context.Background(), dto.PDFImportRequest{
		Pages: []dto.PDFPageRequest{
			{PageNumber: 1, RawText: "参加校园百公里毅行活动并完赛。"},
		},
	})
	require.NoError(t, err)
	require.False(t, resp.Candidates[0].Known)
}

func TestPDFImportServiceInferSurvivesClassifierFailure(t *testing.T) {
	classifier := &stubClassifier{err: errors.New("upstream timeout")}
	svc := NewPDFImportService(classifier, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	resp, err := svc.Infer(context.Background(), dto.PDFImportRequest{
		Pages: []dto.PDFPageRequest{
			{PageNumber: 1, RawText: "参加校园百公里毅行活动并完赛。"},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Candidates, 1)
	require.False(t, resp.Candidates[0].Known)
}

func TestPDFImportServiceInferRejectsEmptyRequest(t *testing.T) {
	svc := NewPDFImportService(nil, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	_, err := svc.Infer(context.Background(), dto.PDFImportRequest{})
	require.Error(t, err)
}
