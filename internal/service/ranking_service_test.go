package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/liuwy-dev/tuimian-go-api/internal/models"
)

type fakeUserRepo struct {
	users map[uint]models.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uint) (models.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByStudentNumber(_ context.Context, studentNumber string) (models.User, error) {
	for _, user := range f.users {
		if user.StudentNumber == studentNumber {
			return user, nil
		}
	}
	return models.User{}, nil
}

func (f *fakeUserRepo) ListActiveReviewers(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, user := range f.users {
		if user.IsActive && user.IsReviewer() {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ListActiveByIDs(_ context.Context, ids []uint) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if user, ok := f.users[id]; ok && user.IsActive {
			out = append(out, user)
		}
	}
	return out, nil
}

func rankingFixture(t *testing.T) (*fakeAchievementRepo, *fakeUserRepo, *fakeAcademicRecordRepo) {
	t.Helper()

	achievements := newFakeAchievementRepo(
		models.Achievement{
			ID:         1,
			UserID:     2,
			Title:      "国家级荣誉称号",
			Category:   models.CategoryHonor,
			ObtainedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Status:     models.AchievementStatusApproved,
			Metadata:   datatypes.JSONMap{"level": "国家级"},
		},
		models.Achievement{
			ID:         2,
			UserID:     3,
			Title:      "校级荣誉称号",
			Category:   models.CategoryHonor,
			ObtainedAt: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			Status:     models.AchievementStatusApproved,
			Metadata:   datatypes.JSONMap{"level": "校级"},
		},
	)

	users := &fakeUserRepo{users: map[uint]models.User{
		2: {ID: 2, Name: "林同学", StudentNumber: "S2022001", Role: models.RoleStudent, IsActive: true},
		3: {ID: 3, Name: "陈同学", StudentNumber: "S2022002", Role: models.RoleStudent, IsActive: true},
	}}

	records := newFakeAcademicRecordRepo()
	require.NoError(t, records.Upsert(context.Background(), &models.AcademicRecord{
		UserID:      2,
		GPA:         4.0,
		Score:       100,
		EvidenceURL: "https://cdn.example.com/transcript.pdf",
	}))

	return achievements, users, records
}

func TestRankingServiceLeaderboardOrdersAndCaches(t *testing.T) {
	redisServer := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: redisServer.Addr()})

	achievements, users, records := rankingFixture(t)
	svc := NewRankingService(achievements, users, records, cache, time.Minute, testLogger())

	first, err := svc.Leaderboard(context.Background())
	require.NoError(t, err)
	require.False(t, first.Cached)
	require.Len(t, first.Entries, 2)

	// GPA 4.0 weighted at 0.8 dominates: 80 + 2 vs 1.
	require.Equal(t, 1, first.Entries[0].Rank)
	require.Equal(t, uint(2), first.Entries[0].Student.ID)
	require.Equal(t, 82.0, first.Entries[0].TotalScore)
	require.Equal(t, 2, first.Entries[1].Rank)
	require.Equal(t, 1.0, first.Entries[1].TotalScore)

	second, err := svc.Leaderboard(context.Background())
	require.NoError(t, err)
	require.True(t, second.Cached)
	require.Equal(t, first.Entries[0].TotalScore, second.Entries[0].TotalScore)
}

func TestRankingServiceInvalidateDropsSnapshot(t *testing.T) {
	redisServer := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: redisServer.Addr()})

	achievements, users, records := rankingFixture(t)
	svc := NewRankingService(achievements, users, records, cache, time.Minute, testLogger())

	_, err := svc.Leaderboard(context.Background())
	require.NoError(t, err)
	require.True(t, redisServer.Exists(rankingCacheKey))

	svc.Invalidate(context.Background())
	require.False(t, redisServer.Exists(rankingCacheKey))

	rebuilt, err := svc.Leaderboard(context.Background())
	require.NoError(t, err)
	require.False(t, rebuilt.Cached)
}

func TestRankingServiceExportFlattensEntries(t *testing.T) {
	achievements, users, records := rankingFixture(t)
	svc := NewRankingService(achievements, users, records, nil, time.Minute, testLogger())

	rows, err := svc.Export(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	top := rows[0]
	require.Equal(t, 1, top.Rank)
	require.Equal(t, "林同学", top.Name)
	require.Equal(t, "S2022001", top.StudentNumber)
	require.Equal(t, 82.0, top.TotalScore)
	require.NotNil(t, top.GPA)
	require.Equal(t, 4.0, *top.GPA)
	require.Equal(t, "https://cdn.example.com/transcript.pdf", top.EvidenceURL)

	require.Nil(t, rows[1].GPA)
}

func TestRankingServiceLeaderboardWithoutRedis(t *testing.T) {
	achievements, users, records := rankingFixture(t)
	svc := NewRankingService(achievements, users, records, nil, time.Minute, testLogger())

	resp, err := svc.Leaderboard(context.Background())
	require.NoError(t, err)
	require.False(t, resp.Cached)
	require.Len(t, resp.Entries, 2)
}
