package models

// Submission status codes. The submitted codes freeze the lateness verdict
// at the submission instant; completion preserves it. Codes are stable wire
// values and must not be renumbered.
const (
	StatusPending    = 1
	StatusInProgress = 2 // legacy, read but never produced
	StatusRejected   = 6

	StatusSubmittedOnTime = 10
	StatusSubmittedLate   = 11
	StatusCompleted       = 12
	StatusCompletedLate   = 13
)

// Report status codes.
const (
	ReportStatusSubmitted = 1
	ReportStatusConfirmed = 5
)

// Human-readable status labels.
const (
	LabelPending         = "Pending"
	LabelDeadlinePassed  = "Deadline Passed"
	LabelSubmittedOnTime = "Submitted On Time"
	LabelSubmittedLate   = "Submitted Late"
	LabelCompleted       = "Completed"
	LabelCompletedLate   = "Completed Late"
	LabelRejected        = "Rejected"
)

// IsSubmittedStatus reports whether the code marks a submission awaiting
// review.
func IsSubmittedStatus(code int) bool {
	return code == StatusSubmittedOnTime || code == StatusSubmittedLate
}

// IsCompletedStatus reports whether the code marks a decided, terminal
// submission.
func IsCompletedStatus(code int) bool {
	return code == StatusCompleted || code == StatusCompletedLate
}
