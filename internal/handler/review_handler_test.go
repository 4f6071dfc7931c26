package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/liuwy-dev/tuimian-go-api/internal/dto"
	"github.com/liuwy-dev/tuimian-go-api/internal/handler"
	"github.com/liuwy-dev/tuimian-go-api/internal/review"
	"github.com/liuwy-dev/tuimian-go-api/internal/service"
)

type mockReviewService struct {
	queueResponse  []dto.AchievementResponse
	decideResponse dto.AchievementResponse
	decideErr      error
	lastReviewerID uint
	lastVerdict    dto.ReviewVerdictRequest
}

func (m *mockReviewService) Queue(_ context.Context, reviewerID uint, _ dto.ReviewQueueFilter) ([]dto.AchievementResponse, error) {
	m.lastReviewerID = reviewerID
	return m.queueResponse, nil
}

func (m *mockReviewService) Get(_ context.Context, _ uint) (dto.AchievementResponse, error) {
	return dto.AchievementResponse{}, nil
}

func (m *mockReviewService) Decide(_ context.Context, reviewerID, _ uint, req dto.ReviewVerdictRequest) (dto.AchievementResponse, error) {
	m.lastReviewerID = reviewerID
	m.lastVerdict = req
	return m.decideResponse, m.decideErr
}

func newReviewApp(svc service.ReviewService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/reviews", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(10))
		return c.Next()
	})
	handler.NewReviewHandler(svc, zerolog.New(io.Discard)).Register(group)
	return app
}

func postVerdict(t *testing.T, app *fiber.App, verdict dto.ReviewVerdictRequest) *http.Response {
	t.Helper()
	body, err := json.Marshal(verdict)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews/4/decision", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestReviewHandlerQueue(t *testing.T) {
	svc := &mockReviewService{queueResponse: []dto.AchievementResponse{{ID: 1, Status: "submitted"}}}
	app := newReviewApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/reviews/queue?pending=true", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(10), svc.lastReviewerID)
}

func TestReviewHandlerDecide(t *testing.T) {
	svc := &mockReviewService{decideResponse: dto.AchievementResponse{ID: 4, Status: "approved"}}
	app := newReviewApp(svc)

	resp := postVerdict(t, app, dto.ReviewVerdictRequest{Status: "approved"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "approved", svc.lastVerdict.Status)

	var payload struct {
		Data dto.AchievementResponse `json:"data"`
	}
	decodeResponse(t, resp, &payload)
	require.Equal(t, "approved", payload.Data.Status)
}

func TestReviewHandlerDecideForbiddenWithoutSlot(t *testing.T) {
	svc := &mockReviewService{decideErr: review.ErrReviewerSlotNotFound}
	app := newReviewApp(svc)

	resp := postVerdict(t, app, dto.ReviewVerdictRequest{Status: "approved"})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestReviewHandlerDecideRejectionNeedsComment(t *testing.T) {
	svc := &mockReviewService{decideErr: review.ErrCommentRequired}
	app := newReviewApp(svc)

	resp := postVerdict(t, app, dto.ReviewVerdictRequest{Status: "rejected"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
