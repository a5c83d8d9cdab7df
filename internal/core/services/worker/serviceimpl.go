package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"gitlab.com/ticket-raiser/judge/internal/core/ports/primary"
	"gitlab.com/ticket-raiser/judge/internal/core/ports/secondary"
	"gitlab.com/ticket-raiser/judge/internal/domain"
)

var _ IWorkerStatusService = (*WorkerStatusService)(nil)

// publishTimeout bounds a single registry write
const publishTimeout = 2 * time.Second

// WorkerStatusService implements the IWorkerStatusService interface.
// State changes are applied locally and pushed to the registry by the
// RunHeartbeat goroutine, so the consumer never waits on redis. Registry
// writes are best-effort: failures are logged and never surface to the
// judging loop.
type WorkerStatusService struct {
	workerRepo         secondary.WorkerRepository
	logger             primary.Logger
	heartbeatThreshold time.Duration

	mu   sync.RWMutex
	info domain.WorkerInfo

	// writeMu orders registry writes; each write carries the state current when it starts
	writeMu sync.Mutex
	changed chan struct{}
}

// NewWorkerStatusService creates a status service for a new worker id.
// Workers without a heartbeat for heartbeatThreshold are reported inactive.
func NewWorkerStatusService(workerRepo secondary.WorkerRepository, hostname string, heartbeatThreshold time.Duration, logger primary.Logger) *WorkerStatusService {
	now := time.Now()
	return &WorkerStatusService{
		workerRepo:         workerRepo,
		logger:             logger,
		heartbeatThreshold: heartbeatThreshold,
		changed:            make(chan struct{}, 1),
		info: domain.WorkerInfo{
			ID:            uuid.New().String(),
			Hostname:      hostname,
			State:         domain.WorkerStateIdle,
			StartedAt:     now,
			LastHeartbeat: now,
			IsActive:      true,
		},
	}
}

func (s *WorkerStatusService) Register(ctx context.Context) error {
	s.logger.Info("Registering worker", "worker_id", s.info.ID, "hostname", s.info.Hostname)

	if err := s.save(ctx); err != nil {
		return fmt.Errorf("failed to register worker: %w", err)
	}
	return nil
}

func (s *WorkerStatusService) SetState(ctx context.Context, state domain.WorkerState, submissionID *int64) {
	s.mu.Lock()
	previous := s.info.State
	s.info.State = state
	s.info.CurrentSubmissionID = submissionID
	s.mu.Unlock()

	s.logger.Debug("Worker state changed", "worker_id", s.info.ID, "from", previous, "to", state, "submission_id", submissionID)
	s.notify()
}

func (s *WorkerStatusService) RecordVerdict(ctx context.Context, verdict *domain.Verdict) {
	s.mu.Lock()
	if verdict == nil {
		s.info.Failed++
	} else {
		s.info.Processed++
		last := *verdict
		last.Outcomes = nil
		s.info.LastVerdict = &last
	}
	s.mu.Unlock()
	s.notify()
}

func (s *WorkerStatusService) RunHeartbeat(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.changed:
			s.publish(ctx)
		case <-ticker.C:
			s.logger.Debug("Sending worker heartbeat", "worker_id", s.info.ID)
			s.publish(ctx)
		}
	}
}

func (s *WorkerStatusService) Deregister(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.info.State = domain.WorkerStateStopped
	s.info.CurrentSubmissionID = nil
	s.mu.Unlock()

	if err := s.workerRepo.RemoveWorker(ctx, s.info.ID); err != nil {
		return fmt.Errorf("failed to deregister worker: %w", err)
	}
	s.logger.Info("Worker deregistered", "worker_id", s.info.ID)
	return nil
}

func (s *WorkerStatusService) Snapshot() domain.WorkerInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info := s.info
	if info.LastVerdict != nil {
		last := *info.LastVerdict
		info.LastVerdict = &last
	}
	return info
}

func (s *WorkerStatusService) GetAllWorkers(ctx context.Context) ([]*domain.WorkerInfo, error) {
	s.logger.Debug("Getting all workers")

	workers, err := s.workerRepo.GetAllWorkers(ctx)
	if err != nil {
		s.logger.Error("Failed to get all workers", "error", err)
		return nil, fmt.Errorf("failed to get all workers: %w", err)
	}

	heartbeatThreshold := time.Now().Add(-s.heartbeatThreshold)
	for _, worker := range workers {
		worker.IsActive = worker.LastHeartbeat.After(heartbeatThreshold)
	}

	return workers, nil
}

// notify wakes the publisher; pending changes coalesce into one write
func (s *WorkerStatusService) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

func (s *WorkerStatusService) publish(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := s.save(ctx); err != nil {
		s.logger.Warn("Failed to publish worker status", "worker_id", s.info.ID, "error", err)
	}
}

// save writes the current state. A stopped worker is never written back.
func (s *WorkerStatusService) save(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.info.State == domain.WorkerStateStopped {
		s.mu.Unlock()
		return nil
	}
	s.info.LastHeartbeat = time.Now()
	info := s.info
	s.mu.Unlock()

	return s.workerRepo.SaveWorker(ctx, &info)
}
