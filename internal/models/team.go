package models

import "time"

// Grade is an academic cohort scoping which tasks apply to which teams.
type Grade struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Teams     []Team    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// Team is the unit that submits work; exactly one submission per task.
type Team struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GradeID   uint      `gorm:"not null;index" json:"grade_id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TeamMember links an account to a team. Roster management is owned
// elsewhere; the engine only reads it to resolve a student's team.
type TeamMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TeamID    uint      `gorm:"not null;index" json:"team_id"`
	AccountID uint      `gorm:"not null;index" json:"account_id"`
	IsLeader  bool      `gorm:"not null;default:false" json:"is_leader"`
	CreatedAt time.Time `json:"created_at"`
}
