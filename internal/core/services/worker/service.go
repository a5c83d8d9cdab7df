package worker

import (
	"context"
	"time"

	"gitlab.com/ticket-raiser/judge/internal/domain"
)

// IWorkerStatusService tracks the state of this judge worker and publishes
// it to the shared worker registry.
type IWorkerStatusService interface {
	// Register publishes the worker as started
	Register(ctx context.Context) error

	// SetState records a consumer state transition without waiting on the registry
	SetState(ctx context.Context, state domain.WorkerState, submissionID *int64)

	// RecordVerdict counts a finished submission; verdict is nil when it was abandoned
	RecordVerdict(ctx context.Context, verdict *domain.Verdict)

	// RunHeartbeat publishes state changes and refreshes the registration
	// every interval until ctx is done
	RunHeartbeat(ctx context.Context, interval time.Duration)

	// Deregister removes the worker from the registry
	Deregister(ctx context.Context) error

	// Snapshot returns the local view of this worker
	Snapshot() domain.WorkerInfo

	// GetAllWorkers lists every registered worker
	GetAllWorkers(ctx context.Context) ([]*domain.WorkerInfo, error)
}
