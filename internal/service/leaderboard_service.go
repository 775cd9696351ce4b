package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/codoraai/hackeval-api/internal/dto"
	"github.com/codoraai/hackeval-api/internal/models"
	"github.com/codoraai/hackeval-api/internal/repository"
)

const leaderboardCacheKey = "leaderboard:ppt"

// LeaderboardService builds the ranked PPT leaderboard. A team's AI
// evaluation outranks judge averages; teams without either are appended
// unranked.
type LeaderboardService interface {
	Leaderboard(ctx context.Context) ([]dto.LeaderboardEntry, error)
	Invalidate(ctx context.Context)
}

type leaderboardService struct {
	teams       repository.TeamRepository
	evaluations repository.EvaluationRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewLeaderboardService constructs a LeaderboardService. A nil cache client
// disables caching.
func NewLeaderboardService(
	teams repository.TeamRepository,
	evaluations repository.EvaluationRepository,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) LeaderboardService {
	return &leaderboardService{
		teams:       teams,
		evaluations: evaluations,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "leaderboard_service").Logger(),
	}
}

func (s *leaderboardService) Leaderboard(ctx context.Context) ([]dto.LeaderboardEntry, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, leaderboardCacheKey).Result(); err == nil {
			var entries []dto.LeaderboardEntry
			if unmarshalErr := json.Unmarshal([]byte(cached), &entries); unmarshalErr == nil {
				s.logger.Debug().Msg("leaderboard cache hit")
				return entries, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read leaderboard cache")
		}
	}

	teams, err := s.teams.List(ctx, true)
	if err != nil {
		return nil, err
	}

	evaluations, err := s.evaluations.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	entries := buildLeaderboard(teams, evaluations)

	if s.cache != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, leaderboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store leaderboard cache")
			}
		}
	}

	return entries, nil
}

// Invalidate drops the cached leaderboard; called after score mutations.
func (s *leaderboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, leaderboardCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate leaderboard cache")
	}
}

type judgeAggregate struct {
	innovation float64
	technical  float64
	impact     float64
	total      float64
	count      int
}

func buildLeaderboard(teams []models.Team, evaluations []models.JudgeEvaluation) []dto.LeaderboardEntry {
	aggregates := make(map[string]judgeAggregate)
	for _, evaluation := range evaluations {
		agg := aggregates[evaluation.TeamName]
		agg.innovation += evaluation.InnovationCreativity
		agg.technical += evaluation.TechnicalFeasibility
		agg.impact += evaluation.ImpactValue
		agg.total += evaluation.TotalScore
		agg.count++
		aggregates[evaluation.TeamName] = agg
	}

	ranked := make([]dto.LeaderboardEntry, 0, len(teams))
	pending := make([]dto.LeaderboardEntry, 0)

	for _, team := range teams {
		entry := dto.LeaderboardEntry{TeamName: team.TeamName}

		switch {
		case team.Submission != nil && team.Submission.Status == models.SubmissionStatusCompleted:
			entry.Status = dto.LeaderboardStatusAI
			entry.TotalScore = team.Submission.OverallScore
			entry.InnovationUniqueness = scoreFromMap(team.Submission.Scores, "innovation_uniqueness", "innovation")
			entry.TechnicalFeasibility = scoreFromMap(team.Submission.Scores, "technical_feasibility", "technical")
			entry.PotentialImpact = scoreFromMap(team.Submission.Scores, "potential_impact", "impact")
		case aggregates[team.TeamName].count > 0:
			agg := aggregates[team.TeamName]
			n := float64(agg.count)
			entry.Status = dto.LeaderboardStatusJudge
			entry.InnovationUniqueness = ptrFloat(agg.innovation / n)
			entry.TechnicalFeasibility = ptrFloat(agg.technical / n)
			entry.PotentialImpact = ptrFloat(agg.impact / n)
			entry.TotalScore = ptrFloat(agg.total / n)
		default:
			entry.Status = dto.LeaderboardStatusPending
			pending = append(pending, entry)
			continue
		}

		ranked = append(ranked, entry)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return scoreValue(ranked[i].TotalScore) > scoreValue(ranked[j].TotalScore)
	})
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].TeamName < pending[j].TeamName
	})

	for index := range ranked {
		rank := index + 1
		ranked[index].Rank = &rank
	}

	return append(ranked, pending...)
}

func scoreFromMap(scores map[string]interface{}, keys ...string) *float64 {
	for _, key := range keys {
		if value, ok := scores[key]; ok {
			switch v := value.(type) {
			case float64:
				return ptrFloat(v)
			case int:
				return ptrFloat(float64(v))
			case json.Number:
				if parsed, err := v.Float64(); err == nil {
					return ptrFloat(parsed)
				}
			}
		}
	}

	return nil
}

func ptrFloat(value float64) *float64 {
	return &value
}

func scoreValue(value *float64) float64 {
	if value == nil {
		return 0
	}

	return *value
}
