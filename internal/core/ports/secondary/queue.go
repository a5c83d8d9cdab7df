package secondary

import "context"

// SubmissionQueue is the work queue of submission ids awaiting judgment
type SubmissionQueue interface {
	// Pop blocks until a submission id is available and removes it from the queue.
	// A malformed item is consumed and reported with domain.ErrMalformedQueueItem.
	Pop(ctx context.Context) (int64, error)


	// Ping checks that the queue backend is reachable
	Ping(ctx context.Context) error

	Close() error
}
