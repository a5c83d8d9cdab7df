package judgeengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitlab.com/ticket-raiser/judge/internal/core/ports/primary"
	"gitlab.com/ticket-raiser/judge/internal/core/ports/secondary"
	"gitlab.com/ticket-raiser/judge/internal/core/services/judge"
	"gitlab.com/ticket-raiser/judge/internal/core/services/worker"
	"gitlab.com/ticket-raiser/judge/internal/domain"
)

// ConsumerEngine pulls submission ids off the queue and judges them one at
// a time: IDLE -> DEQUEUING -> JUDGING -> PERSISTING -> IDLE, with
// ERROR_RECOVERY reachable from any state.
type ConsumerEngine struct {
	queue          secondary.SubmissionQueue
	judgeService   judge.IJudgeService
	submissionRepo secondary.SubmissionRepository
	workerStatus   worker.IWorkerStatusService
	logger         primary.Logger
	retryBackoff   time.Duration
}

func NewConsumerEngine(
	queue secondary.SubmissionQueue,
	judgeService judge.IJudgeService,
	submissionRepo secondary.SubmissionRepository,
	workerStatus worker.IWorkerStatusService,
	logger primary.Logger,
	retryBackoff time.Duration,
) *ConsumerEngine {
	return &ConsumerEngine{
		queue:          queue,
		judgeService:   judgeService,
		submissionRepo: submissionRepo,
		workerStatus:   workerStatus,
		logger:         logger,
		retryBackoff:   retryBackoff,
	}
}

// Run consumes the queue until ctx is cancelled. An unreachable queue at
// startup is returned as an error; later failures are logged and retried.
// Cancellation is only observed between submissions.
func (e *ConsumerEngine) Run(ctx context.Context) error {
	if err := e.queue.Ping(ctx); err != nil {
		e.logger.Error("Queue unreachable at startup", "error", err)
		return fmt.Errorf("queue unreachable: %w", err)
	}

	e.logger.Info("Judge consumer started", "retry_backoff", e.retryBackoff)
	for ctx.Err() == nil {
		e.workerStatus.SetState(ctx, domain.WorkerStateIdle, nil)
		e.consumeOne(ctx)
	}

	e.logger.Info("Judge consumer stopped")
	return nil
}

func (e *ConsumerEngine) consumeOne(ctx context.Context) {
	e.workerStatus.SetState(ctx, domain.WorkerStateDequeuing, nil)

	submissionID, err := e.queue.Pop(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		if errors.Is(err, domain.ErrMalformedQueueItem) {
			e.logger.Warn("Skipping malformed queue item", "error", err)
			return
		}
		e.logger.Error("Failed to dequeue submission", "error", err, "retry_in", e.retryBackoff)
		e.workerStatus.SetState(ctx, domain.WorkerStateErrorRecovery, nil)
		e.sleep(ctx, e.retryBackoff)
		return
	}

	// the dequeued submission is finished even if shutdown starts meanwhile
	e.processSubmission(context.WithoutCancel(ctx), submissionID)
}

func (e *ConsumerEngine) processSubmission(ctx context.Context, submissionID int64) {
	e.logger.Info("Processing submission", "submission_id", submissionID)
	e.workerStatus.SetState(ctx, domain.WorkerStateJudging, &submissionID)

	verdict, err := e.judgeSafely(ctx, submissionID)
	if err != nil {
		if domain.IsPrecondition(err) {
			e.logger.Error("Abandoning submission", "submission_id", submissionID, "error", err)
			e.workerStatus.RecordVerdict(ctx, nil)
			return
		}
		e.logger.Error("Judging failed, recording runtime error", "submission_id", submissionID, "error", err)
		e.workerStatus.SetState(ctx, domain.WorkerStateErrorRecovery, &submissionID)
		verdict = &domain.Verdict{Status: domain.StatusRuntimeError, PassedCount: 0}
	}

	e.workerStatus.SetState(ctx, domain.WorkerStatePersisting, &submissionID)
	if err := e.submissionRepo.UpdateSubmissionResult(ctx, submissionID, verdict.Status, verdict.PassedCount); err != nil {
		// judged but not persisted; the submission keeps its previous status
		e.logger.Error("Failed to persist verdict",
			"submission_id", submissionID,
			"status", verdict.Status,
			"passed", verdict.PassedCount,
			"error", err,
		)
		e.workerStatus.RecordVerdict(ctx, nil)
		return
	}

	e.logger.Info("Verdict persisted", "submission_id", submissionID, "status", verdict.Status, "passed", verdict.PassedCount)
	e.workerStatus.RecordVerdict(ctx, verdict)
}

func (e *ConsumerEngine) judgeSafely(ctx context.Context, submissionID int64) (verdict *domain.Verdict, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("judging panicked: %v", rec)
		}
	}()
	verdict, err = e.judgeService.JudgeSubmission(ctx, submissionID)
	if err == nil && verdict == nil {
		err = errors.New("judge returned no verdict")
	}
	return verdict, err
}

func (e *ConsumerEngine) sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
