package entity

import "time"

// SubmissionStatus is the lifecycle state of a pending submission.
type SubmissionStatus string

const (
	SubmissionStatusPending   SubmissionStatus = "pending"
	SubmissionStatusCompleted SubmissionStatus = "completed"
	SubmissionStatusExpired   SubmissionStatus = "expired"
)

// Submission is a form submission held open while it waits for an
// external payment event. Its entry row already exists in pending
// state; the settlement engine mutates the entry's meta buckets and
// then continues the submission, which finalizes the entry. A
// submission can be restored only while still pending and unexpired.
type Submission struct {
	ID        string
	EntryID   int64
	FormID    int64
	ExpiresAt time.Time
}
