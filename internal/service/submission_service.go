package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/capstone-go-api/internal/dto"
	"github.com/noah-isme/capstone-go-api/internal/lifecycle"
	"github.com/noah-isme/capstone-go-api/internal/models"
	"github.com/noah-isme/capstone-go-api/internal/repository"
)

// ErrTaskNotFound indicates a task could not be found.
var ErrTaskNotFound = errors.New("task not found")

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrInvalidTransition indicates the operation is not legal from the
// submission's current status code.
var ErrInvalidTransition = errors.New("invalid status transition")

// SubmissionService orchestrates the submit/review/reject lifecycle.
type SubmissionService interface {
	List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error)
	Submit(ctx context.Context, payload dto.SubmitTaskRequest, teamLeaderID uint) (dto.SubmissionResponse, error)
	Review(ctx context.Context, id uint, payload dto.ReviewSubmissionRequest) (dto.SubmissionResponse, error)
	Reject(ctx context.Context, id uint) (dto.SubmissionResponse, error)
	AddFeedback(ctx context.Context, id uint, payload dto.FeedbackRequest) error
}

type submissionService struct {
	submissions repository.SubmissionRepository
	tasks       repository.TaskRepository
	validator   *validator.Validate
	clock       lifecycle.Clock
	sanitizer   *bluemonday.Policy
	events      SubmissionEventPublisher
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(subRepo repository.SubmissionRepository, taskRepo repository.TaskRepository, validate *validator.Validate, clock lifecycle.Clock, events SubmissionEventPublisher, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: subRepo,
		tasks:       taskRepo,
		validator:   validate,
		clock:       clock,
		sanitizer:   bluemonday.StrictPolicy(),
		events:      events,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/capstone-go-api/internal/service/submission"),
	}
}

func (s *submissionService) List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	repoFilter := repository.SubmissionFilter{
		TaskID:     filter.TaskID,
		TeamID:     filter.TeamID,
		StatusCode: filter.StatusCode,
	}

	submissions, err := s.submissions.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	responses := make([]dto.SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		classification := lifecycle.Classify(submission.Task, &submission, now)
		responses = append(responses, dto.NewSubmissionResponse(submission, classification))
	}

	return responses, nil
}

// Submit records a team's submission or resubmission. The lateness judgment
// is frozen from the clock at this instant; the upsert rides the
// (task, team) unique index so concurrent submits end in exactly one row.
func (s *submissionService) Submit(ctx context.Context, payload dto.SubmitTaskRequest, teamLeaderID uint) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.submit")
	span.SetAttributes(
		attribute.Int64("submission.task_id", int64(payload.TaskID)),
		attribute.Int64("submission.team_id", int64(payload.TeamID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	task, err := s.tasks.GetByID(ctx, payload.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "task_not_found")
			return dto.SubmissionResponse{}, ErrTaskNotFound
		}
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	now := s.clock.Now()
	submission := models.TaskSubmission{
		TaskID:       payload.TaskID,
		TeamID:       payload.TeamID,
		TeamLeaderID: teamLeaderID,
		Link:         strings.TrimSpace(payload.Link),
		Note:         strings.TrimSpace(s.sanitizer.Sanitize(payload.Note)),
		StatusCode:   lifecycle.SubmittedStatus(task.Deadline, now),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	resubmit := false
	if existing, err := s.submissions.GetByTaskAndTeam(ctx, payload.TaskID, payload.TeamID); err == nil {
		resubmit = existing.ID != 0
	}

	if err := s.submissions.Upsert(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_upsert_failed")
		return dto.SubmissionResponse{}, err
	}

	// Reload through the unique key: on a conflict the upsert updated a row
	// whose ID the insert model does not carry.
	stored, err := s.submissions.GetByTaskAndTeam(ctx, payload.TaskID, payload.TeamID)
	if err != nil {
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	classification := lifecycle.Classify(stored.Task, &stored, now)
	response := dto.NewSubmissionResponse(stored, classification)

	action := EventTaskSubmitted
	if resubmit {
		action = EventSubmissionResubmit
	}
	if s.events != nil {
		s.events.Publish(ctx, action, response)
	}

	s.logger.Info().
		Uint("submission_id", stored.ID).
		Uint("task_id", stored.TaskID).
		Uint("team_id", stored.TeamID).
		Bool("late", classification.IsLate).
		Msg("task submitted")

	span.SetAttributes(attribute.Int("submission.status_code", stored.StatusCode))

	return response, nil
}

// Review accepts a submission awaiting review. Completed vs completed-late
// derives from the frozen submitted status, never from the review instant.
func (s *submissionService) Review(ctx context.Context, id uint, payload dto.ReviewSubmissionRequest) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.review")
	span.SetAttributes(attribute.Int64("submission.id", int64(id)))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	feedback := payload.Feedback
	if feedback != nil {
		clean := strings.TrimSpace(s.sanitizer.Sanitize(*feedback))
		feedback = &clean
	}

	affected, err := s.submissions.Review(ctx, id, feedback, s.clock.Now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_review_failed")
		return dto.SubmissionResponse{}, err
	}

	if affected == 0 {
		if _, err := s.submissions.GetByID(ctx, id); errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "submission_not_found")
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		span.SetStatus(codes.Error, "invalid_transition")
		return dto.SubmissionResponse{}, ErrInvalidTransition
	}

	return s.afterTransition(ctx, span, id, EventSubmissionReviewed)
}

// Reject sends a submission awaiting review back to the team.
func (s *submissionService) Reject(ctx context.Context, id uint) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.reject")
	span.SetAttributes(attribute.Int64("submission.id", int64(id)))
	defer span.End()

	affected, err := s.submissions.Reject(ctx, id, s.clock.Now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_reject_failed")
		return dto.SubmissionResponse{}, err
	}

	if affected == 0 {
		if _, err := s.submissions.GetByID(ctx, id); errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "submission_not_found")
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		span.SetStatus(codes.Error, "invalid_transition")
		return dto.SubmissionResponse{}, ErrInvalidTransition
	}

	return s.afterTransition(ctx, span, id, EventSubmissionRejected)
}

// AddFeedback overwrites feedback text in any stored state.
func (s *submissionService) AddFeedback(ctx context.Context, id uint, payload dto.FeedbackRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	clean := strings.TrimSpace(s.sanitizer.Sanitize(payload.Feedback))

	affected, err := s.submissions.SetFeedback(ctx, id, clean, s.clock.Now())
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrSubmissionNotFound
	}

	s.logger.Info().Uint("submission_id", id).Msg("feedback updated")

	return nil
}

func (s *submissionService) afterTransition(ctx context.Context, span trace.Span, id uint, action string) (dto.SubmissionResponse, error) {
	stored, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	classification := lifecycle.Classify(stored.Task, &stored, s.clock.Now())
	response := dto.NewSubmissionResponse(stored, classification)

	if s.events != nil {
		s.events.Publish(ctx, action, response)
	}

	s.logger.Info().
		Uint("submission_id", stored.ID).
		Int("status_code", stored.StatusCode).
		Str("action", action).
		Msg("submission transitioned")

	span.SetAttributes(attribute.Int("submission.status_code", stored.StatusCode))

	return response, nil
}
