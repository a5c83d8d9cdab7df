package submissionqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"gitlab.com/ticket-raiser/judge/internal/core/ports/primary"
	"gitlab.com/ticket-raiser/judge/internal/core/ports/secondary"
	"gitlab.com/ticket-raiser/judge/internal/domain"
)

var _ secondary.SubmissionQueue = (*SubmissionQueue)(nil)

var (
	errConsumerClosed = errors.New("amqp consumer closed")
	errQueueClosed    = errors.New("submission queue closed")
)

// session is one broker connection with a running consumer
type session struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	deliveries <-chan amqp.Delivery
}

func (s *session) isClosed() bool {
	if s.conn == nil || s.channel == nil {
		return false
	}
	return s.conn.IsClosed() || s.channel.IsClosed()
}

func (s *session) close() error {
	if s.channel != nil {
		_ = s.channel.Close()
	}
	if s.conn != nil && !s.conn.IsClosed() {
		return s.conn.Close()
	}
	return nil
}

type dialFunc func() (*session, error)

// SubmissionQueue implements the SubmissionQueue interface with a durable
// RabbitMQ queue. One unacknowledged delivery is held at a time and it is
// acknowledged as soon as it is popped. A lost connection is re-dialed on
// the next Pop or Ping.
type SubmissionQueue struct {
	queueName string
	logger    primary.Logger
	dial      dialFunc

	mu      sync.Mutex
	current *session
	closed  bool
}

// NewSubmissionQueue dials the broker, declares the queue and starts consuming
func NewSubmissionQueue(url, queueName string, logger primary.Logger) (*SubmissionQueue, error) {
	q := &SubmissionQueue{
		queueName: queueName,
		logger:    logger,
		dial: func() (*session, error) {
			return dial(url, queueName)
		},
	}
	if _, err := q.live(); err != nil {
		return nil, err
	}
	return q, nil
}

func dial(url, queueName string) (*session, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	queue, err := channel.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	if err := channel.Qos(1, 0, false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}

	deliveries, err := channel.Consume(queue.Name, "", false, false, false, false, nil)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to start consumer: %w", err)
	}

	return &session{conn: conn, channel: channel, deliveries: deliveries}, nil
}

// live returns the current session, dialing a new one when there is none
func (q *SubmissionQueue) live() (*session, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, errQueueClosed
	}
	if q.current != nil && q.current.isClosed() {
		_ = q.current.close()
		q.current = nil
	}
	if q.current == nil {
		sess, err := q.dial()
		if err != nil {
			return nil, err
		}
		q.current = sess
	}
	return q.current, nil
}

// drop discards sess if it is still the current session
func (q *SubmissionQueue) drop(sess *session) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.current == sess {
		_ = sess.close()
		q.current = nil
	}
}

// Pop waits for the next delivery. When the consumer was closed by the
// broker it reconnects once and keeps waiting; a second consecutive loss is
// returned so the caller can back off.
func (q *SubmissionQueue) Pop(ctx context.Context) (int64, error) {
	for reconnected := false; ; reconnected = true {
		sess, err := q.live()
		if err != nil {
			return 0, err
		}

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case delivery, ok := <-sess.deliveries:
			if !ok {
				q.drop(sess)
				if reconnected {
					return 0, errConsumerClosed
				}
				q.logger.Warn("RabbitMQ consumer closed, reconnecting", "queue", q.queueName)
				continue
			}
			if err := delivery.Ack(false); err != nil {
				return 0, fmt.Errorf("failed to ack delivery: %w", err)
			}
			return domain.ParseSubmissionID(string(delivery.Body))
		}
	}
}

func (q *SubmissionQueue) Ping(ctx context.Context) error {
	if _, err := q.live(); err != nil {
		return fmt.Errorf("rabbitmq unavailable: %w", err)
	}
	return nil
}

func (q *SubmissionQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	if q.current == nil {
		return nil
	}
	err := q.current.close()
	q.current = nil
	return err
}
