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
	"github.com/liuwy-dev/tuimian-go-api/internal/review"
)

var testCutoff = time.Date(2024, 8, 31, 23, 59, 59, 0, time.UTC)

func newAchievementService(t *testing.T, repo *fakeAchievementRepo, roster *review.RosterCache, events EventPublisher) AchievementService {
	t.Helper()
	validate := validator.New(validator.WithRequiredStructEnabled())
	policies, err := policy.New(validate, testCutoff)
	require.NoError(t, err)
	if events == nil {
		events = PublisherFunc(func(AchievementStatusEvent) {})
	}
	return NewAchievementService(repo, roster, policies, validate, events, testLogger())
}

func TestAchievementServiceCreateComputesScoreAndSanitizes(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newAchievementService(t, repo, testRoster(), nil)

	created, err := svc.Create(context.Background(), 1, dto.AchievementCreateRequest{
		Title:      "<script>alert(1)</script>论文成果",
		Category:   string(models.CategoryPaper),
		ObtainedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Metadata:   map[string]any{"level": "A"},
	})
	require.NoError(t, err)
	require.Equal(t, "论文成果", created.Title)
	require.Equal(t, models.AchievementStatusDraft, created.Status)
	require.Equal(t, 10.0, created.Score)
}

func TestAchievementServiceCreateRejectsUnknownCategory(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newAchievementService(t, repo, testRoster(), nil)

	_, err := svc.Create(context.Background(), 1, dto.AchievementCreateRequest{
		Title:      "未知类别成果",
		Category:   "language_exam",
		ObtainedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, ErrInvalidCategory)
}

func TestAchievementServiceUpdateResetsVerdicts(t *testing.T) {
	reviewedAt := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	repo := newFakeAchievementRepo(models.Achievement{
		ID:         7,
		UserID:     1,
		Title:      "数学建模竞赛",
		Category:   models.CategoryContest,
		ObtainedAt: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Status:     models.AchievementStatusSubmitted,
		Reviews: []models.ReviewDecision{
			{AchievementID: 7, ReviewerID: 10, ReviewerName: "王审核", Status: models.ReviewStatusApproved, Comment: "ok", ReviewedAt: &reviewedAt},
		},
	})
	svc := newAchievementService(t, repo, testRoster(), nil)

	newTitle := "数学建模竞赛（更正）"
	updated, err := svc.Update(context.Background(), 1, 7, dto.AchievementUpdateRequest{Title: &newTitle})
	require.NoError(t, err)
	require.Equal(t, newTitle, updated.Title)
	require.Len(t, updated.Reviews, 1)
	require.Equal(t, models.ReviewStatusSubmitted, updated.Reviews[0].Status)
	require.Empty(t, updated.Reviews[0].Comment)
	require.Nil(t, updated.Reviews[0].ReviewedAt)
	require.Equal(t, 1, repo.replaceCalls)
}

func TestAchievementServiceUpdateRejectsAdjudicated(t *testing.T) {
	repo := newFakeAchievementRepo(models.Achievement{
		ID:       3,
		UserID:   1,
		Title:    "已批准成果",
		Category: models.CategoryHonor,
		Status:   models.AchievementStatusApproved,
	})
	svc := newAchievementService(t, repo, testRoster(), nil)

	newTitle := "改动"
	_, err := svc.Update(context.Background(), 1, 3, dto.AchievementUpdateRequest{Title: &newTitle})
	require.ErrorIs(t, err, ErrAchievementNotEditable)
	require.Equal(t, 0, repo.updateCalls)
}

func TestAchievementServiceSubmitAssignsReviewSlotsAndPublishes(t *testing.T) {
	repo := newFakeAchievementRepo(models.Achievement{
		ID:          5,
		UserID:      1,
		Title:       "志愿服务记录",
		Category:    models.CategoryVolunteer,
		ItemSlug:    "volunteer-service",
		ObtainedAt:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Description: "累计志愿服务三百二十小时，覆盖两个学年，材料完整。",
		EvidenceURL: "https://cdn.example.com/volunteer.pdf",
		Status:      models.AchievementStatusDraft,
		Metadata:    datatypes.JSONMap{"totalHours": 320.0},
	})
	events := &capturingPublisher{}
	roster := testRoster(
		review.Reviewer{ID: 10, Name: "王审核", StudentNumber: "R0001"},
		review.Reviewer{ID: 11, Name: "李审核", StudentNumber: "R0002"},
	)
	svc := newAchievementService(t, repo, roster, events)

	submitted, result, err := svc.Submit(context.Background(), 1, 5)
	require.NoError(t, err)
	require.True(t, result.Accepted())
	require.Equal(t, models.AchievementStatusSubmitted, submitted.Status)
	require.Len(t, submitted.Reviews, 2)
	for _, slot := range submitted.Reviews {
		require.Equal(t, models.ReviewStatusSubmitted, slot.Status)
	}

	require.Len(t, events.events, 1)
	require.Equal(t, models.AchievementStatusDraft, events.events[0].PreviousStatus)
	require.Equal(t, models.AchievementStatusSubmitted, events.events[0].Status)
}

func TestAchievementServiceSubmitRejectsPolicyViolation(t *testing.T) {
	repo := newFakeAchievementRepo(models.Achievement{
		ID:          6,
		UserID:      1,
		Title:       "志愿服务记录",
		Category:    models.CategoryVolunteer,
		ItemSlug:    "volunteer-service",
		ObtainedAt:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Description: "累计志愿服务一百二十小时，尚未达到申报门槛。",
		EvidenceURL: "https://cdn.example.com/volunteer.pdf",
		Status:      models.AchievementStatusDraft,
		Metadata:    datatypes.JSONMap{"totalHours": 120.0},
	})
	svc := newAchievementService(t, repo, testRoster(), nil)

	_, result, err := svc.Submit(context.Background(), 1, 6)
	require.ErrorIs(t, err, ErrEligibilityRejected)
	require.Contains(t, result.Violations, "metadata/totalHours")
	require.Equal(t, 0, repo.updateCalls)

	stored, err := repo.GetByID(context.Background(), 6)
	require.NoError(t, err)
	require.Equal(t, models.AchievementStatusDraft, stored.Status)
}

func TestAchievementServiceDeleteRequiresOwnership(t *testing.T) {
	repo := newFakeAchievementRepo(models.Achievement{ID: 9, UserID: 2, Title: "他人成果"})
	svc := newAchievementService(t, repo, testRoster(), nil)

	err := svc.Delete(context.Background(), 1, 9)
	require.ErrorIs(t, err, ErrAchievementNotFound)

	require.NoError(t, svc.Delete(context.Background(), 2, 9))
}
