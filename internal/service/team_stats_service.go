package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/capstone-go-api/internal/dto"
	"github.com/noah-isme/capstone-go-api/internal/lifecycle"
	"github.com/noah-isme/capstone-go-api/internal/models"
	"github.com/noah-isme/capstone-go-api/internal/repository"
)

// TeamStatsService rolls task classifications up into per-team and per-grade
// counters.
type TeamStatsService interface {
	TeamTaskGrid(ctx context.Context, teamID uint) (dto.TeamTaskGrid, error)
	GradeTaskGrid(ctx context.Context, gradeID uint) (dto.GradeTaskGrid, error)
}

type teamStatsService struct {
	tasks       repository.TaskRepository
	submissions repository.SubmissionRepository
	teams       repository.TeamRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	clock       lifecycle.Clock
	logger      zerolog.Logger
}

// NewTeamStatsService builds the aggregator.
func NewTeamStatsService(taskRepo repository.TaskRepository, subRepo repository.SubmissionRepository, teamRepo repository.TeamRepository, cache *redis.Client, ttl time.Duration, clock lifecycle.Clock, logger zerolog.Logger) TeamStatsService {
	return &teamStatsService{
		tasks:       taskRepo,
		submissions: subRepo,
		teams:       teamRepo,
		cache:       cache,
		cacheTTL:    ttl,
		clock:       clock,
		logger:      logger.With().Str("component", "team_stats_service").Logger(),
	}
}

func (s *teamStatsService) TeamTaskGrid(ctx context.Context, teamID uint) (dto.TeamTaskGrid, error) {
	cacheKey := fmt.Sprintf("taskgrid:team:%d", teamID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var grid dto.TeamTaskGrid
			if unmarshalErr := json.Unmarshal([]byte(cached), &grid); unmarshalErr == nil {
				s.logger.Debug().Uint("team_id", teamID).Msg("task grid cache hit")
				return grid, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read task grid cache")
		}
	}

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeamTaskGrid{}, ErrTeamNotFound
		}
		return dto.TeamTaskGrid{}, err
	}

	grid, err := s.buildGrid(ctx, team)
	if err != nil {
		return dto.TeamTaskGrid{}, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(grid); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store task grid cache")
			}
		}
	}

	return grid, nil
}

func (s *teamStatsService) GradeTaskGrid(ctx context.Context, gradeID uint) (dto.GradeTaskGrid, error) {
	teams, err := s.teams.ListByGrade(ctx, gradeID)
	if err != nil {
		return dto.GradeTaskGrid{}, err
	}

	grids := make([]dto.TeamTaskGrid, 0, len(teams))
	for _, team := range teams {
		grid, err := s.buildGrid(ctx, team)
		if err != nil {
			return dto.GradeTaskGrid{}, err
		}
		grids = append(grids, grid)
	}

	return dto.GradeTaskGrid{GradeID: gradeID, Teams: grids}, nil
}

// buildGrid unions tasks-with-submissions and tasks-without disjointly: each
// grade-matching task lands in exactly one bucket, so the buckets always sum
// to the task count.
func (s *teamStatsService) buildGrid(ctx context.Context, team models.Team) (dto.TeamTaskGrid, error) {
	tasks, err := s.tasks.ListByGrade(ctx, team.GradeID)
	if err != nil {
		return dto.TeamTaskGrid{}, err
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{TeamID: &team.ID})
	if err != nil {
		return dto.TeamTaskGrid{}, err
	}

	byTask := make(map[uint]models.TaskSubmission, len(submissions))
	for _, submission := range submissions {
		byTask[submission.TaskID] = submission
	}

	now := s.clock.Now()
	grid := dto.TeamTaskGrid{TeamID: team.ID, GradeID: team.GradeID, TotalTasks: len(tasks)}

	for _, task := range tasks {
		var submission *models.TaskSubmission
		if stored, ok := byTask[task.ID]; ok {
			submission = &stored
		}

		classification := lifecycle.Classify(task, submission, now)
		switch classification.StatusCode {
		case models.StatusCompleted:
			grid.Completed++
		case models.StatusCompletedLate:
			grid.CompletedLate++
		case models.StatusSubmittedOnTime:
			grid.Submitted++
		case models.StatusSubmittedLate:
			grid.SubmittedLate++
		case models.StatusRejected:
			grid.Rejected++
		default:
			if submission == nil && classification.IsLate {
				grid.Overdue++
			} else {
				grid.Pending++
			}
		}
	}

	return grid, nil
}
