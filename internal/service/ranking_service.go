package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/liuwy-dev/tuimian-go-api/internal/dto"
	"github.com/liuwy-dev/tuimian-go-api/internal/models"
	"github.com/liuwy-dev/tuimian-go-api/internal/observability"
	"github.com/liuwy-dev/tuimian-go-api/internal/ranking"
	"github.com/liuwy-dev/tuimian-go-api/internal/repository"
	"github.com/liuwy-dev/tuimian-go-api/internal/scoring"
)

const rankingCacheKey = "ranking:leaderboard"

// RankingService derives the full-program leaderboard. Results are snapshot
// cached in redis; any achievement status change invalidates the snapshot.
type RankingService interface {
	Leaderboard(ctx context.Context) (dto.RankingResponse, error)
	Export(ctx context.Context) ([]dto.RankingExportRowResponse, error)
	Invalidate(ctx context.Context)
}

type rankingService struct {
	achievements repository.AchievementRepository
	users        repository.UserRepository
	records      repository.AcademicRecordRepository
	cache        *redis.Client
	cacheTTL     time.Duration
	logger       zerolog.Logger
}

// NewRankingService constructs the leaderboard aggregator.
func NewRankingService(
	achievements repository.AchievementRepository,
	users repository.UserRepository,
	records repository.AcademicRecordRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) RankingService {
	return &rankingService{
		achievements: achievements,
		users:        users,
		records:      records,
		cache:        cache,
		cacheTTL:     cacheTTL,
		logger:       logger.With().Str("component", "ranking_service").Logger(),
	}
}

func (s *rankingService) Leaderboard(ctx context.Context) (dto.RankingResponse, error) {
	entries, cached, err := s.entries(ctx)
	if err != nil {
		return dto.RankingResponse{}, err
	}
	return dto.NewRankingResponse(entries, cached), nil
}

// Export projects the leaderboard into the flat row shape the spreadsheet
// exporter consumes.
func (s *rankingService) Export(ctx context.Context) ([]dto.RankingExportRowResponse, error) {
	entries, _, err := s.entries(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewRankingExportRows(entries), nil
}

func (s *rankingService) entries(ctx context.Context) ([]ranking.Entry, bool, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, rankingCacheKey).Result(); err == nil {
			var entries []ranking.Entry
			if unmarshalErr := json.Unmarshal([]byte(cached), &entries); unmarshalErr == nil {
				observability.RankingCacheHits().WithLabelValues("hit").Inc()
				return entries, true, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read ranking snapshot")
		}
	}

	entries, err := s.build(ctx)
	if err != nil {
		return nil, false, err
	}
	observability.RankingCacheHits().WithLabelValues("miss").Inc()

	if s.cache != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, rankingCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store ranking snapshot")
			}
		}
	}

	return entries, false, nil
}

// Invalidate drops the cached snapshot so the next read recomputes.
func (s *rankingService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, rankingCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate ranking snapshot")
	}
}

// build assembles candidates from every student with at least one non-draft
// achievement. Only approved achievements contribute points.
func (s *rankingService) build(ctx context.Context) ([]ranking.Entry, error) {
	userIDs, err := s.achievements.DistinctUserIDsWithSubmissions(ctx)
	if err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return []ranking.Entry{}, nil
	}

	students, err := s.users.ListActiveByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	records, err := s.records.ListByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	recordByUser := make(map[uint]models.AcademicRecord, len(records))
	for _, record := range records {
		recordByUser[record.UserID] = record
	}

	candidates := make([]ranking.Candidate, 0, len(students))
	for _, student := range students {
		studentID := student.ID
		approved, err := s.achievements.List(ctx, repository.AchievementFilter{
			UserID:   &studentID,
			Statuses: []string{models.AchievementStatusApproved},
		})
		if err != nil {
			return nil, err
		}

		candidate := ranking.Candidate{
			Student: student,
			Summary: scoring.Summarize(approved),
		}
		if record, ok := recordByUser[student.ID]; ok {
			candidate.Record = &record
		}
		candidates = append(candidates, candidate)
	}

	return ranking.Build(candidates), nil
}
