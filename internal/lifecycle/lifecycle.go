// Package lifecycle holds the task submission decision logic: the deadline
// comparator and the single classify function every read surface consumes.
// Deadlines and "now" are absolute instants; display-timezone conversion is
// a rendering concern and never happens before a comparison.
package lifecycle

import (
	"time"

	"github.com/noah-isme/capstone-go-api/internal/models"
)

// Classification describes a (task, submission) pair's current status.
type Classification struct {
	StatusCode    int    `json:"status_code"`
	Label         string `json:"label"`
	IsLate        bool   `json:"is_late"`
	IsTerminal    bool   `json:"is_terminal"`
	Resubmittable bool   `json:"resubmittable"`
}

// IsLate reports whether now is strictly past the deadline. Both arguments
// are instants; no offset arithmetic is applied.
func IsLate(deadline, now time.Time) bool {
	return now.After(deadline)
}

// Classify produces the classification for a task and its optional
// submission row. The clock is consulted only when no submission exists;
// a stored submission carries a frozen lateness judgment that is never
// recomputed against a later now.
func Classify(task models.Task, submission *models.TaskSubmission, now time.Time) Classification {
	if submission == nil {
		if IsLate(task.Deadline, now) {
			return Classification{
				StatusCode: models.StatusPending,
				Label:      models.LabelDeadlinePassed,
				IsLate:     true,
			}
		}
		return Classification{
			StatusCode: models.StatusPending,
			Label:      models.LabelPending,
		}
	}

	switch submission.StatusCode {
	case models.StatusSubmittedOnTime:
		return Classification{
			StatusCode: models.StatusSubmittedOnTime,
			Label:      models.LabelSubmittedOnTime,
		}
	case models.StatusSubmittedLate:
		return Classification{
			StatusCode: models.StatusSubmittedLate,
			Label:      models.LabelSubmittedLate,
			IsLate:     true,
		}
	case models.StatusCompleted:
		return Classification{
			StatusCode: models.StatusCompleted,
			Label:      models.LabelCompleted,
			IsTerminal: true,
		}
	case models.StatusCompletedLate:
		return Classification{
			StatusCode: models.StatusCompletedLate,
			Label:      models.LabelCompletedLate,
			IsLate:     true,
			IsTerminal: true,
		}
	case models.StatusRejected:
		return Classification{
			StatusCode:    models.StatusRejected,
			Label:         models.LabelRejected,
			Resubmittable: true,
		}
	default:
		// Legacy codes (e.g. in-progress) render as pending.
		return Classification{
			StatusCode: submission.StatusCode,
			Label:      models.LabelPending,
		}
	}
}

// SubmittedStatus returns the frozen status code for a submission event at
// the given instant.
func SubmittedStatus(deadline, now time.Time) int {
	if IsLate(deadline, now) {
		return models.StatusSubmittedLate
	}
	return models.StatusSubmittedOnTime
}

// CompletedStatus derives the terminal code from the status under review.
// Lateness carries over from the frozen submission judgment; the review
// instant is irrelevant.
func CompletedStatus(priorStatus int) int {
	if priorStatus == models.StatusSubmittedLate {
		return models.StatusCompletedLate
	}
	return models.StatusCompleted
}
