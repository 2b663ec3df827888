package dto

// TeamTaskGrid aggregates the classifications of every grade-matching task
// for one team. Each task lands in exactly one bucket; the buckets sum to
// TotalTasks.
type TeamTaskGrid struct {
	TeamID        uint `json:"team_id"`
	GradeID       uint `json:"grade_id"`
	TotalTasks    int  `json:"total_tasks"`
	Completed     int  `json:"completed"`
	CompletedLate int  `json:"completed_late"`
	Submitted     int  `json:"submitted"`
	SubmittedLate int  `json:"submitted_late"`
	Rejected      int  `json:"rejected"`
	Pending       int  `json:"pending"`
	Overdue       int  `json:"overdue"`
}

// GradeTaskGrid lists the per-team grids of a whole grade.
type GradeTaskGrid struct {
	GradeID uint           `json:"grade_id"`
	Teams   []TeamTaskGrid `json:"teams"`
}
