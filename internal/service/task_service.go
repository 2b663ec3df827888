package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/capstone-go-api/internal/dto"
	"github.com/noah-isme/capstone-go-api/internal/lifecycle"
	"github.com/noah-isme/capstone-go-api/internal/models"
	"github.com/noah-isme/capstone-go-api/internal/repository"
)

// ErrTeamNotFound indicates the account has no team or the team is absent.
var ErrTeamNotFound = errors.New("team not found")

// TaskService lists tasks with their classifications for a team's view.
type TaskService interface {
	TasksForStudent(ctx context.Context, accountID uint) ([]dto.TaskResponse, error)
	TasksForTeam(ctx context.Context, teamID uint) ([]dto.TaskResponse, error)
}

type taskService struct {
	tasks       repository.TaskRepository
	submissions repository.SubmissionRepository
	teams       repository.TeamRepository
	clock       lifecycle.Clock
	logger      zerolog.Logger
}

// NewTaskService constructs a TaskService instance.
func NewTaskService(taskRepo repository.TaskRepository, subRepo repository.SubmissionRepository, teamRepo repository.TeamRepository, clock lifecycle.Clock, logger zerolog.Logger) TaskService {
	return &taskService{
		tasks:       taskRepo,
		submissions: subRepo,
		teams:       teamRepo,
		clock:       clock,
		logger:      logger.With().Str("component", "task_service").Logger(),
	}
}

func (s *taskService) TasksForStudent(ctx context.Context, accountID uint) ([]dto.TaskResponse, error) {
	team, err := s.teams.GetForAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	return s.classifyForTeam(ctx, team)
}

func (s *taskService) TasksForTeam(ctx context.Context, teamID uint) ([]dto.TaskResponse, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	return s.classifyForTeam(ctx, team)
}

func (s *taskService) classifyForTeam(ctx context.Context, team models.Team) ([]dto.TaskResponse, error) {
	tasks, err := s.tasks.ListByGrade(ctx, team.GradeID)
	if err != nil {
		return nil, err
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{TeamID: &team.ID})
	if err != nil {
		return nil, err
	}

	byTask := make(map[uint]models.TaskSubmission, len(submissions))
	for _, submission := range submissions {
		byTask[submission.TaskID] = submission
	}

	now := s.clock.Now()
	responses := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		var submission *models.TaskSubmission
		if stored, ok := byTask[task.ID]; ok {
			submission = &stored
		}

		classification := lifecycle.Classify(task, submission, now)
		responses = append(responses, dto.NewTaskResponse(task, submission, classification))
	}

	return responses, nil
}
