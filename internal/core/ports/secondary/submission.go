package secondary

import (
	"context"

	"gitlab.com/ticket-raiser/judge/internal/domain"
)

type SubmissionRepository interface {
	// GetSubmission retrieves a submission by ID, nil when it does not exist
	GetSubmission(ctx context.Context, submissionID int64) (*domain.Submission, error)

	// UpdateSubmissionResult stores the final status and passed count of a submission
	UpdateSubmissionResult(ctx context.Context, submissionID int64, status domain.Status, testCasesPassed int) error

	// Ping checks the database connection
	Ping(ctx context.Context) error
}
