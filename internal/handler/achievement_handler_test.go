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
	"github.com/liuwy-dev/tuimian-go-api/internal/policy"
	"github.com/liuwy-dev/tuimian-go-api/internal/service"
)

type mockAchievementService struct {
	listResponse   []dto.AchievementResponse
	getResponse    dto.AchievementResponse
	getErr         error
	createResponse dto.AchievementResponse
	createErr      error
	submitResponse dto.AchievementResponse
	submitResult   policy.Result
	submitErr      error
	lastUserID     uint
}

func (m *mockAchievementService) List(_ context.Context, userID uint, _ dto.AchievementFilter) ([]dto.AchievementResponse, error) {
	m.lastUserID = userID
	return m.listResponse, nil
}

func (m *mockAchievementService) Get(_ context.Context, userID, _ uint) (dto.AchievementResponse, error) {
	m.lastUserID = userID
	return m.getResponse, m.getErr
}

func (m *mockAchievementService) Create(_ context.Context, userID uint, _ dto.AchievementCreateRequest) (dto.AchievementResponse, error) {
	m.lastUserID = userID
	return m.createResponse, m.createErr
}

func (m *mockAchievementService) Update(_ context.Context, _, _ uint, _ dto.AchievementUpdateRequest) (dto.AchievementResponse, error) {
	return dto.AchievementResponse{}, nil
}

func (m *mockAchievementService) Submit(_ context.Context, userID, _ uint) (dto.AchievementResponse, policy.Result, error) {
	m.lastUserID = userID
	return m.submitResponse, m.submitResult, m.submitErr
}

func (m *mockAchievementService) Delete(_ context.Context, _, _ uint) error {
	return nil
}

func (m *mockAchievementService) Summary(_ context.Context, _ uint) (dto.ScoreSummaryResponse, error) {
	return dto.ScoreSummaryResponse{}, nil
}

func newAchievementApp(svc service.AchievementService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/achievements", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(7))
		return c.Next()
	})
	handler.NewAchievementHandler(svc, zerolog.New(io.Discard)).Register(group)
	return app
}

func TestAchievementHandlerCreate(t *testing.T) {
	svc := &mockAchievementService{createResponse: dto.AchievementResponse{ID: 1, Title: "论文成果", Status: "draft"}}
	app := newAchievementApp(svc)

	body, err := json.Marshal(fiber.Map{
		"title":       "论文成果",
		"category":    "paper",
		"obtained_at": "2024-03-01T00:00:00Z",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/achievements", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, uint(7), svc.lastUserID)

	var payload struct {
		Success bool                    `json:"success"`
		Data    dto.AchievementResponse `json:"data"`
	}
	decodeResponse(t, resp, &payload)
	require.True(t, payload.Success)
	require.Equal(t, uint(1), payload.Data.ID)
}

func TestAchievementHandlerGetNotFound(t *testing.T) {
	svc := &mockAchievementService{getErr: service.ErrAchievementNotFound}
	app := newAchievementApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/achievements/42", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAchievementHandlerSubmitRejectedCarriesViolations(t *testing.T) {
	svc := &mockAchievementService{
		submitErr: service.ErrEligibilityRejected,
		submitResult: policy.Result{
			Violations: policy.Violations{"metadata/totalHours": "志愿服务需累计满 200 小时"},
			Warnings:   policy.Violations{},
		},
	}
	app := newAchievementApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/achievements/5/submit", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var payload struct {
		Success bool                         `json:"success"`
		Data    dto.EligibilityCheckResponse `json:"data"`
		Message string                       `json:"message"`
	}
	decodeResponse(t, resp, &payload)
	require.False(t, payload.Success)
	require.False(t, payload.Data.Accepted)
	require.Contains(t, payload.Data.Violations, "metadata/totalHours")
}

func TestAchievementHandlerSubmitSuccessSurfacesWarnings(t *testing.T) {
	svc := &mockAchievementService{
		submitResponse: dto.AchievementResponse{ID: 5, Status: "submitted"},
		submitResult: policy.Result{
			Violations: policy.Violations{},
			Warnings:   policy.Violations{"itemSlug": "学术类加分已达上限，本项可能不再加分"},
		},
	}
	app := newAchievementApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/achievements/5/submit", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Data struct {
			Achievement dto.AchievementResponse `json:"achievement"`
			Warnings    map[string]string       `json:"warnings"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &payload)
	require.Equal(t, "submitted", payload.Data.Achievement.Status)
	require.Contains(t, payload.Data.Warnings, "itemSlug")
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(body, target))
}
