package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const EmailRetryStream = "wallet-ledger:email-retry"

type RetryPolicy struct {
	MaxAttempts  int           `json:"maxAttempts"`
	InitialDelay time.Duration `json:"initialDelay"`
}

// DefaultRetryPolicy backs off exponentially from five seconds and gives up
// after five attempts.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts:  5,
	InitialDelay: 5 * time.Second,
}

// Delay returns how long to wait before the given attempt, doubling per
// attempt. Attempts are 1-based.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	delay := p.InitialDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	return delay
}

// retryJob is the envelope persisted on the retry stream.
type retryJob struct {
	Message       EmailMessage `json:"message"`
	Attempt       int          `json:"attempt"`
	NextAttemptAt time.Time    `json:"nextAttemptAt"`
	Policy        RetryPolicy  `json:"policy"`
}

// RetryQueue hands a message to an out-of-band retry mechanism. Enqueueing
// must be cheap; actual delivery happens in the worker.
type RetryQueue interface {
	Enqueue(ctx context.Context, message EmailMessage, policy RetryPolicy) error
}

// RedisQueue persists retry jobs on a Redis stream so they survive process
// restarts and are drained by the worker's consumer group.
type RedisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

func (q *RedisQueue) Enqueue(ctx context.Context, message EmailMessage, policy RetryPolicy) error {
	return q.add(ctx, retryJob{
		Message:       message,
		Attempt:       1,
		NextAttemptAt: time.Now().UTC().Add(policy.Delay(1)),
		Policy:        policy,
	})
}

func (q *RedisQueue) add(ctx context.Context, job retryJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal retry job: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: EmailRetryStream,
		Values: map[string]any{
			"job": payload,
		},
	}
	if _, err := q.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("enqueue retry job: %w", err)
	}

	return nil
}
