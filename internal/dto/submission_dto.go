package dto

import (
	"time"

	"github.com/noah-isme/capstone-go-api/internal/lifecycle"
	"github.com/noah-isme/capstone-go-api/internal/models"
)

// SubmitTaskRequest is the payload for a team's submit or resubmit.
type SubmitTaskRequest struct {
	TaskID uint   `json:"task_id" validate:"required,gt=0"`
	TeamID uint   `json:"team_id" validate:"required,gt=0"`
	Link   string `json:"link" validate:"required,url"`
	Note   string `json:"note" validate:"omitempty,max=2000"`
}

// ReviewSubmissionRequest optionally carries feedback merged during review.
type ReviewSubmissionRequest struct {
	Feedback *string `json:"feedback" validate:"omitempty,min=3"`
}

// FeedbackRequest sets feedback without changing the status code.
type FeedbackRequest struct {
	Feedback string `json:"feedback" validate:"required,min=3"`
}

// SubmissionFilter describes query string filters for listing submissions.
type SubmissionFilter struct {
	TaskID     *uint `query:"task_id"`
	TeamID     *uint `query:"team_id"`
	StatusCode *int  `query:"status_code"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID             uint                     `json:"id"`
	TaskID         uint                     `json:"task_id"`
	TeamID         uint                     `json:"team_id"`
	TeamLeaderID   uint                     `json:"team_leader_id"`
	Link           string                   `json:"link"`
	Note           string                   `json:"note"`
	Feedback       *string                  `json:"feedback"`
	StatusCode     int                      `json:"status_code"`
	Classification lifecycle.Classification `json:"classification"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
	Task           TaskLite                 `json:"task"`
}

// NewSubmissionResponse converts a TaskSubmission model into a DTO.
func NewSubmissionResponse(model models.TaskSubmission, classification lifecycle.Classification) SubmissionResponse {
	response := SubmissionResponse{
		ID:             model.ID,
		TaskID:         model.TaskID,
		TeamID:         model.TeamID,
		TeamLeaderID:   model.TeamLeaderID,
		Link:           model.Link,
		Note:           model.Note,
		Feedback:       model.Feedback,
		StatusCode:     model.StatusCode,
		Classification: classification,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}

	if model.Task.ID != 0 {
		response.Task = TaskLite{
			ID:       model.Task.ID,
			GradeID:  model.Task.GradeID,
			Name:     model.Task.Name,
			Deadline: model.Task.Deadline,
		}
	}

	return response
}
