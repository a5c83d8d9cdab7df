package secondary

import (
	"context"

	"gitlab.com/ticket-raiser/judge/internal/domain"
)

type WorkerRepository interface {
	// SaveWorker saves worker information and refreshes its expiration
	SaveWorker(ctx context.Context, worker *domain.WorkerInfo) error

	// GetWorker retrieves worker information by ID, nil when expired or unknown
	GetWorker(ctx context.Context, workerID string) (*domain.WorkerInfo, error)

	// GetAllWorkers retrieves every registered worker
	GetAllWorkers(ctx context.Context) ([]*domain.WorkerInfo, error)

	// RemoveWorker deletes a worker registration
	RemoveWorker(ctx context.Context, workerID string) error
}
