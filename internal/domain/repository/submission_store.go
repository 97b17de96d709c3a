package repository

import (
	"context"
	"time"

	"github.com/formworks/payments/internal/domain/entity"
)

// SubmissionStore restores and finalizes pending form submissions.
// Restore and Continue are separate calls on purpose: the engine
// mutates the entry's payment buckets between them, and Continue fires
// at most once per submission.
type SubmissionStore interface {
	// Restore returns the pending submission for an id, or (nil, nil)
	// when the submission is already finalized, expired or unknown.
	Restore(ctx context.Context, submissionID string) (*entity.Submission, error)

	// Continue resumes the held submission workflow, finalizing the
	// entry. Continuing a non-pending submission is an error.
	Continue(ctx context.Context, submissionID string) error

	// ExpireStale flips pending submissions whose expiry has passed to
	// expired and returns how many were flipped.
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}
