package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/liuwy-dev/tuimian-go-api/internal/models"
	"github.com/liuwy-dev/tuimian-go-api/internal/repository"
	"github.com/liuwy-dev/tuimian-go-api/internal/review"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testRoster(reviewers ...review.Reviewer) *review.RosterCache {
	return review.NewRosterCache(func(context.Context) ([]review.Reviewer, error) {
		return reviewers, nil
	}, time.Minute, testLogger())
}

type fakeAchievementRepo struct {
	achievements map[uint]models.Achievement
	nextID       uint
	updateCalls  int
	replaceCalls int
}

func newFakeAchievementRepo(seed ...models.Achievement) *fakeAchievementRepo {
	repo := &fakeAchievementRepo{achievements: map[uint]models.Achievement{}}
	for _, achievement := range seed {
		if achievement.ID == 0 {
			repo.nextID++
			achievement.ID = repo.nextID
		} else if achievement.ID > repo.nextID {
			repo.nextID = achievement.ID
		}
		repo.achievements[achievement.ID] = achievement
	}
	return repo
}

func (f *fakeAchievementRepo) List(_ context.Context, filter repository.AchievementFilter) ([]models.Achievement, error) {
	var out []models.Achievement
	for _, achievement := range f.achievements {
		if filter.UserID != nil && achievement.UserID != *filter.UserID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsString(filter.Statuses, achievement.Status) {
			continue
		}
		out = append(out, achievement)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ObtainedAt.Equal(out[j].ObtainedAt) {
			return out[i].ObtainedAt.Before(out[j].ObtainedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeAchievementRepo) GetByID(_ context.Context, id uint) (models.Achievement, error) {
	achievement, ok := f.achievements[id]
	if !ok {
		return models.Achievement{}, gorm.ErrRecordNotFound
	}
	return achievement, nil
}

func (f *fakeAchievementRepo) GetByIDForUser(_ context.Context, id, userID uint) (models.Achievement, error) {
	achievement, ok := f.achievements[id]
	if !ok || achievement.UserID != userID {
		return models.Achievement{}, gorm.ErrRecordNotFound
	}
	return achievement, nil
}

func (f *fakeAchievementRepo) Create(_ context.Context, achievement *models.Achievement) error {
	f.nextID++
	achievement.ID = f.nextID
	f.achievements[achievement.ID] = *achievement
	return nil
}

func (f *fakeAchievementRepo) Update(_ context.Context, achievement *models.Achievement) error {
	if _, ok := f.achievements[achievement.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.updateCalls++
	f.achievements[achievement.ID] = *achievement
	return nil
}

func (f *fakeAchievementRepo) ReplaceReviews(_ context.Context, achievementID uint, reviews []models.ReviewDecision) error {
	achievement, ok := f.achievements[achievementID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	f.replaceCalls++
	achievement.Reviews = reviews
	f.achievements[achievementID] = achievement
	return nil
}

func (f *fakeAchievementRepo) Delete(_ context.Context, id, userID uint) error {
	achievement, ok := f.achievements[id]
	if !ok || achievement.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(f.achievements, id)
	return nil
}

func (f *fakeAchievementRepo) DistinctUserIDsWithSubmissions(_ context.Context) ([]uint, error) {
	seen := map[uint]struct{}{}
	var ids []uint
	for _, achievement := range f.achievements {
		if achievement.Status == models.AchievementStatusDraft {
			continue
		}
		if _, ok := seen[achievement.UserID]; ok {
			continue
		}
		seen[achievement.UserID] = struct{}{}
		ids = append(ids, achievement.UserID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

type capturingPublisher struct {
	events []AchievementStatusEvent
}

func (p *capturingPublisher) PublishStatusChanged(event AchievementStatusEvent) {
	p.events = append(p.events, event)
}
