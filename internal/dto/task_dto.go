package dto

import (
	"time"

	"github.com/noah-isme/capstone-go-api/internal/lifecycle"
	"github.com/noah-isme/capstone-go-api/internal/models"
)

// TaskLite summarizes a task inside submission responses.
type TaskLite struct {
	ID       uint      `json:"id"`
	GradeID  uint      `json:"grade_id"`
	Name     string    `json:"name"`
	Deadline time.Time `json:"deadline"`
}

// TaskResponse serializes a task together with its classification for the
// requesting team.
type TaskResponse struct {
	ID             uint                     `json:"id"`
	GradeID        uint                     `json:"grade_id"`
	Name           string                   `json:"name"`
	Description    string                   `json:"description"`
	Deadline       time.Time                `json:"deadline"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
	SubmissionID   *uint                    `json:"submission_id"`
	Classification lifecycle.Classification `json:"classification"`
}

// NewTaskResponse converts a task and its optional submission into a DTO.
func NewTaskResponse(task models.Task, submission *models.TaskSubmission, classification lifecycle.Classification) TaskResponse {
	response := TaskResponse{
		ID:             task.ID,
		GradeID:        task.GradeID,
		Name:           task.Name,
		Description:    task.Description,
		Deadline:       task.Deadline,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
		Classification: classification,
	}

	if submission != nil {
		response.SubmissionID = &submission.ID
	}

	return response
}
