package models

import "time"

// Report is a free-text progress report with its own small status machine:
// submitted, then confirmed (terminal). No deadline logic applies.
type Report struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AccountID  uint      `gorm:"not null;index" json:"account_id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Body       string    `gorm:"type:text" json:"body"`
	StatusCode int       `gorm:"not null;default:1" json:"status_code"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsConfirmed reports whether the report reached its terminal state.
func (r Report) IsConfirmed() bool {
	return r.StatusCode == ReportStatusConfirmed
}
