package workerport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"gitlab.com/ticket-raiser/judge/internal/core/ports/primary"
	"gitlab.com/ticket-raiser/judge/internal/core/ports/secondary"
	"gitlab.com/ticket-raiser/judge/internal/domain"
)

const (
	workerKeyPrefix         = "judge:worker:"
	defaultWorkerExpiration = 5 * time.Minute
)

var _ secondary.WorkerRepository = (*WorkerRepository)(nil)

// WorkerRepository implements the WorkerRepository interface with Redis.
// Each worker is a JSON value that expires unless refreshed by heartbeats.
type WorkerRepository struct {
	redisClient *redis.Client
	logger      primary.Logger
	expiration  time.Duration
}

// NewWorkerRepository creates a new Redis worker repository
func NewWorkerRepository(redisClient *redis.Client, expiration time.Duration, logger primary.Logger) *WorkerRepository {
	if expiration <= 0 {
		expiration = defaultWorkerExpiration
	}
	return &WorkerRepository{
		redisClient: redisClient,
		logger:      logger,
		expiration:  expiration,
	}
}

func workerKey(workerID string) string {
	return workerKeyPrefix + workerID
}

// SaveWorker saves worker information to Redis
func (r *WorkerRepository) SaveWorker(ctx context.Context, worker *domain.WorkerInfo) error {
	workerJSON, err := json.Marshal(worker)
	if err != nil {
		r.logger.Error("Failed to marshal worker info", "error", err)
		return fmt.Errorf("failed to marshal worker info: %w", err)
	}

	if err := r.redisClient.Set(ctx, workerKey(worker.ID), workerJSON, r.expiration).Err(); err != nil {
		r.logger.Error("Failed to save worker info", "worker_id", worker.ID, "error", err)
		return fmt.Errorf("failed to save worker info: %w", err)
	}

	return nil
}

// GetWorker retrieves worker information from Redis by ID
func (r *WorkerRepository) GetWorker(ctx context.Context, workerID string) (*domain.WorkerInfo, error) {
	workerJSON, err := r.redisClient.Get(ctx, workerKey(workerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		r.logger.Error("Failed to get worker info", "worker_id", workerID, "error", err)
		return nil, fmt.Errorf("failed to get worker info: %w", err)
	}

	var worker domain.WorkerInfo
	if err := json.Unmarshal(workerJSON, &worker); err != nil {
		r.logger.Error("Failed to unmarshal worker info", "error", err)
		return nil, fmt.Errorf("failed to unmarshal worker info: %w", err)
	}

	return &worker, nil
}

// GetAllWorkers retrieves all worker information from Redis.
func (r *WorkerRepository) GetAllWorkers(ctx context.Context) ([]*domain.WorkerInfo, error) {
	var cursor uint64
	var workerKeys []string

	for {
		keys, next, err := r.redisClient.Scan(ctx, cursor, workerKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan worker keys: %w", err)
		}
		workerKeys = append(workerKeys, keys...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	workers := make([]*domain.WorkerInfo, 0, len(workerKeys))
	if len(workerKeys) == 0 {
		return workers, nil
	}

	workerData, err := r.redisClient.MGet(ctx, workerKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve worker data: %w", err)
	}

	for _, data := range workerData {
		// expired between SCAN and MGET
		raw, ok := data.(string)
		if !ok {
			continue
		}
		var worker domain.WorkerInfo
		if err := json.Unmarshal([]byte(raw), &worker); err != nil {
			return nil, fmt.Errorf("failed to unmarshal worker data: %w", err)
		}
		workers = append(workers, &worker)
	}

	return workers, nil
}

// RemoveWorker deletes a worker registration
func (r *WorkerRepository) RemoveWorker(ctx context.Context, workerID string) error {
	if err := r.redisClient.Del(ctx, workerKey(workerID)).Err(); err != nil {
		r.logger.Error("Failed to remove worker", "worker_id", workerID, "error", err)
		return fmt.Errorf("failed to remove worker: %w", err)
	}
	return nil
}
