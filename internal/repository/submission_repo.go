package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/capstone-go-api/internal/models"
)

// SubmissionFilter allows narrowing submission queries.
type SubmissionFilter struct {
	TaskID     *uint
	TeamID     *uint
	StatusCode *int
}

// SubmissionRepository defines data operations for task submissions. Status
// transitions are guarded updates so a concurrent reviewer's decision is
// never silently overwritten.
type SubmissionRepository interface {
	List(ctx context.Context, filter SubmissionFilter) ([]models.TaskSubmission, error)
	GetByID(ctx context.Context, id uint) (models.TaskSubmission, error)
	GetByTaskAndTeam(ctx context.Context, taskID, teamID uint) (models.TaskSubmission, error)
	Upsert(ctx context.Context, submission *models.TaskSubmission) error
	Review(ctx context.Context, id uint, feedback *string, now time.Time) (int64, error)
	Reject(ctx context.Context, id uint, now time.Time) (int64, error)
	SetFeedback(ctx context.Context, id uint, feedback string, now time.Time) (int64, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.TaskSubmission{}).Preload("Task")
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.TaskSubmission, error) {
	query := r.baseQuery(ctx)

	if filter.TaskID != nil {
		query = query.Where("task_id = ?", *filter.TaskID)
	}

	if filter.TeamID != nil {
		query = query.Where("team_id = ?", *filter.TeamID)
	}

	if filter.StatusCode != nil {
		query = query.Where("status_code = ?", *filter.StatusCode)
	}

	var submissions []models.TaskSubmission
	if err := query.Order("created_at DESC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.TaskSubmission, error) {
	var submission models.TaskSubmission
	if err := r.baseQuery(ctx).First(&submission, id).Error; err != nil {
		return models.TaskSubmission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) GetByTaskAndTeam(ctx context.Context, taskID, teamID uint) (models.TaskSubmission, error) {
	var submission models.TaskSubmission
	if err := r.baseQuery(ctx).
		Where("task_id = ?", taskID).
		Where("team_id = ?", teamID).
		First(&submission).Error; err != nil {
		return models.TaskSubmission{}, err
	}

	return submission, nil
}

// Upsert inserts the submission or, when a row already exists for the same
// (task, team), overwrites its resubmittable fields in place. Riding on the
// unique index means two concurrent submits collapse into one row and the
// duplicate-key race never reaches the caller.
func (r *submissionRepository) Upsert(ctx context.Context, submission *models.TaskSubmission) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "task_id"}, {Name: "team_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"team_leader_id": submission.TeamLeaderID,
			"link":           submission.Link,
			"note":           submission.Note,
			"status_code":    submission.StatusCode,
			"feedback":       nil,
			"updated_at":     submission.UpdatedAt,
		}),
	}).Create(submission).Error
}

// Review moves a submission awaiting review to its terminal code. The target
// code is derived from the frozen status in the same statement, so the
// deadline is never re-checked against the review instant.
func (r *submissionRepository) Review(ctx context.Context, id uint, feedback *string, now time.Time) (int64, error) {
	assignments := map[string]interface{}{
		"status_code": gorm.Expr(
			"CASE WHEN status_code = ? THEN ? ELSE ? END",
			models.StatusSubmittedLate, models.StatusCompletedLate, models.StatusCompleted,
		),
		"updated_at": now,
	}
	if feedback != nil {
		assignments["feedback"] = *feedback
	}

	result := r.db.WithContext(ctx).Model(&models.TaskSubmission{}).
		Where("id = ?", id).
		Where("status_code IN ?", []int{models.StatusSubmittedOnTime, models.StatusSubmittedLate}).
		Updates(assignments)

	return result.RowsAffected, result.Error
}

// Reject moves a submission awaiting review to the rejected state.
func (r *submissionRepository) Reject(ctx context.Context, id uint, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.TaskSubmission{}).
		Where("id = ?", id).
		Where("status_code IN ?", []int{models.StatusSubmittedOnTime, models.StatusSubmittedLate}).
		Updates(map[string]interface{}{
			"status_code": models.StatusRejected,
			"updated_at":  now,
		})

	return result.RowsAffected, result.Error
}

// SetFeedback overwrites the feedback text without touching the status code.
func (r *submissionRepository) SetFeedback(ctx context.Context, id uint, feedback string, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.TaskSubmission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"feedback":   feedback,
			"updated_at": now,
		})

	return result.RowsAffected, result.Error
}
