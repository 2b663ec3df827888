package models

import "time"

// Task is a capstone assignment scoped to one grade. The deadline is stored
// as an absolute instant; lateness is always decided by instant comparison,
// never by wall-clock rendering.
type Task struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	GradeID     uint             `gorm:"not null;index" json:"grade_id"`
	Name        string           `gorm:"size:255;not null" json:"name"`
	Description string           `gorm:"type:text" json:"description"`
	Deadline    time.Time        `gorm:"not null" json:"deadline"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Submissions []TaskSubmission `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
