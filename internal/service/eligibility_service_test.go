package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/liuwy-dev/tuimian-go-api/internal/dto"
	"github.com/liuwy-dev/tuimian-go-api/internal/models"
	"github.com/liuwy-dev/tuimian-go-api/internal/policy"
)

func newEligibilityService(t *testing.T, repo *fakeAchievementRepo) EligibilityService {
	t.Helper()
	validate := validator.New(validator.WithRequiredStructEnabled())
	policies, err := policy.New(validate, testCutoff)
	require.NoError(t, err)
	return NewEligibilityService(repo, policies, validate, testLogger())
}

func volunteerCheckRequest(hours float64) dto.EligibilityCheckRequest {
	return dto.EligibilityCheckRequest{
		ItemSlug:   "volunteer-service",
		ObtainedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Summary:    "累计志愿服务时长的校级证明材料。",
		Attachments: []dto.EligibilityAttachment{
			{URL: "https://cdn.example.com/hours.pdf", Name: "志愿时长证明"},
		},
		Metadata: map[string]any{"totalHours": hours},
	}
}

func TestEligibilityServiceCheckAccepted(t *testing.T) {
	svc := newEligibilityService(t, newFakeAchievementRepo())

	resp, err := svc.Check(context.Background(), 1, volunteerCheckRequest(320))
	require.NoError(t, err)
	require.True(t, resp.Accepted)
	require.Empty(t, resp.Violations)
}

func TestEligibilityServiceCheckRejectsAfterCutoff(t *testing.T) {
	svc := newEligibilityService(t, newFakeAchievementRepo())

	req := volunteerCheckRequest(320)
	req.ObtainedAt = time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC)

	resp, err := svc.Check(context.Background(), 1, req)
	require.NoError(t, err)
	require.False(t, resp.Accepted)
	require.Contains(t, resp.Violations, "obtainedAt")
}

func TestEligibilityServiceCheckEnforcesPaperQuota(t *testing.T) {
	paperC := func(id uint) models.Achievement {
		return models.Achievement{
			ID:         id,
			UserID:     1,
			Title:      "已录 C 类论文",
			Category:   models.CategoryPaper,
			ObtainedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			Status:     models.AchievementStatusApproved,
			Metadata:   datatypes.JSONMap{"level": "C", "firstUnit": true, "authorRank": 1},
		}
	}
	svc := newEligibilityService(t, newFakeAchievementRepo(paperC(1), paperC(2)))

	resp, err := svc.Check(context.Background(), 1, dto.EligibilityCheckRequest{
		ItemSlug:   "paper-c-tier",
		ObtainedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Summary:    "第三篇 C 类论文的申报材料说明。",
		Attachments: []dto.EligibilityAttachment{
			{URL: "https://cdn.example.com/paper.pdf", Name: "论文全文"},
		},
		Metadata: map[string]any{"level": "C", "firstUnit": true, "authorRank": 1},
	})
	require.NoError(t, err)
	require.False(t, resp.Accepted)
	require.Contains(t, resp.Violations, "itemSlug")
}

func TestEligibilityServiceCheckValidatesRequest(t *testing.T) {
	svc := newEligibilityService(t, newFakeAchievementRepo())

	_, err := svc.Check(context.Background(), 1, dto.EligibilityCheckRequest{})
	require.Error(t, err)
}
