package dto

import (
	"time"

	"github.com/noah-isme/capstone-go-api/internal/models"
)

// ConfirmAllReportsRequest targets every unconfirmed report of one submitter.
type ConfirmAllReportsRequest struct {
	AccountID uint `json:"account_id" validate:"required,gt=0"`
}

// ReportFailure describes a single report that could not be confirmed.
type ReportFailure struct {
	ReportID uint   `json:"report_id"`
	Reason   string `json:"reason"`
}

// ConfirmAllReportsResponse reports the outcome of a best-effort bulk
// confirmation.
type ConfirmAllReportsResponse struct {
	Succeeded []uint          `json:"succeeded"`
	Failed    []ReportFailure `json:"failed"`
}

// ReportResponse serializes a progress report.
type ReportResponse struct {
	ID         uint      `json:"id"`
	AccountID  uint      `json:"account_id"`
	Title      string    `json:"title"`
	StatusCode int       `json:"status_code"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewReportResponse converts a Report model into a DTO.
func NewReportResponse(model models.Report) ReportResponse {
	return ReportResponse{
		ID:         model.ID,
		AccountID:  model.AccountID,
		Title:      model.Title,
		StatusCode: model.StatusCode,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}
