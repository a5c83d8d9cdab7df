package submissionqueue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"gitlab.com/ticket-raiser/judge/internal/core/ports/primary"
	"gitlab.com/ticket-raiser/judge/internal/core/ports/secondary"
	"gitlab.com/ticket-raiser/judge/internal/domain"
)

const DefaultQueueKey = "submissions_queue"

var _ secondary.SubmissionQueue = (*SubmissionQueue)(nil)

// SubmissionQueue implements the SubmissionQueue interface with a Redis list.
// Producers LPUSH, consumers BRPOP, so ids are served in FIFO order.
type SubmissionQueue struct {
	redisClient  *redis.Client
	logger       primary.Logger
	key          string
	blockTimeout time.Duration
}

// NewSubmissionQueue creates a Redis backed queue. A zero blockTimeout
// makes every BRPOP wait indefinitely.
func NewSubmissionQueue(redisClient *redis.Client, key string, blockTimeout time.Duration, logger primary.Logger) *SubmissionQueue {
	if key == "" {
		key = DefaultQueueKey
	}
	return &SubmissionQueue{
		redisClient:  redisClient,
		logger:       logger,
		key:          key,
		blockTimeout: blockTimeout,
	}
}

// Pop blocks until an id is available or ctx is done
func (q *SubmissionQueue) Pop(ctx context.Context) (int64, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		result, err := q.redisClient.BRPop(ctx, q.blockTimeout, q.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return 0, ctxErr
			}
			return 0, fmt.Errorf("failed to pop submission: %w", err)
		}

		// BRPOP replies with [key, value]
		if len(result) != 2 {
			return 0, fmt.Errorf("unexpected BRPOP reply of length %d", len(result))
		}
		return domain.ParseSubmissionID(result[1])
	}
}

func (q *SubmissionQueue) Ping(ctx context.Context) error {
	if err := q.redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

func (q *SubmissionQueue) Close() error {
	return q.redisClient.Close()
}
