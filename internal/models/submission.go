package models

import "time"

// TaskSubmission is the single submission a team may hold for a task. The
// composite unique index is what makes concurrent submits collapse into one
// row instead of racing into duplicates.
type TaskSubmission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TaskID       uint      `gorm:"not null;uniqueIndex:idx_task_team" json:"task_id"`
	TeamID       uint      `gorm:"not null;uniqueIndex:idx_task_team" json:"team_id"`
	TeamLeaderID uint      `gorm:"not null" json:"team_leader_id"`
	Link         string    `gorm:"size:512;not null" json:"link"`
	Note         string    `gorm:"type:text" json:"note"`
	Feedback     *string   `gorm:"type:text" json:"feedback"`
	StatusCode   int       `gorm:"not null" json:"status_code"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Task         Task      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"task"`
}

// AwaitingReview reports whether the submission can still be reviewed or
// rejected.
func (s TaskSubmission) AwaitingReview() bool {
	return IsSubmittedStatus(s.StatusCode)
}
