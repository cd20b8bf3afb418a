package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/api-sage/wallet-ledger/internal/logger"
	"github.com/redis/go-redis/v9"
)

// Worker drains the retry stream with a consumer group, honoring each job's
// backoff schedule. A job that keeps failing is dropped after its policy's
// MaxAttempts with an error log.
// retryAdder re-persists a job envelope for a later attempt.
type retryAdder interface {
	add(ctx context.Context, job retryJob) error
}

type Worker struct {
	client        *redis.Client
	queue         retryAdder
	mailer        Mailer
	group         string
	consumer      string
	batchSize     int64
	blockDuration time.Duration
}

func NewWorker(client *redis.Client, mailer Mailer, consumer string) *Worker {
	return &Worker{
		client:        client,
		queue:         NewRedisQueue(client),
		mailer:        mailer,
		group:         "email-retry-workers",
		consumer:      consumer,
		batchSize:     10,
		blockDuration: 5 * time.Second,
	}
}

func (w *Worker) Start(ctx context.Context) error {
	err := w.client.XGroupCreateMkStream(ctx, EmailRetryStream, w.group, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return fmt.Errorf("create retry consumer group: %w", err)
	}

	logger.Info("notification worker started", logger.Fields{
		"stream":   EmailRetryStream,
		"group":    w.group,
		"consumer": w.consumer,
	})

	for {
		select {
		case <-ctx.Done():
			logger.Info("notification worker stopping", nil)
			return ctx.Err()
		default:
			if err := w.readJobs(ctx); err != nil && ctx.Err() == nil {
				logger.Error("notification worker read failed", err, nil)
				time.Sleep(time.Second)
			}
		}
	}
}

func (w *Worker) readJobs(ctx context.Context) error {
	streams, err := w.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    w.group,
		Consumer: w.consumer,
		Streams:  []string{EmailRetryStream, ">"},
		Count:    w.batchSize,
		Block:    w.blockDuration,
	}).Result()

	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read retry stream: %w", err)
	}

	for _, stream := range streams {
		for _, message := range stream.Messages {
			if err := w.processJob(ctx, message); err != nil {
				// Leave the message pending so it is not lost; it stays on
				// this consumer's pending list for a later claim.
				logger.Error("notification worker job not settled", err, logger.Fields{
					"messageId": message.ID,
				})
				continue
			}
			if err := w.client.XAck(ctx, EmailRetryStream, w.group, message.ID).Err(); err != nil {
				logger.Error("notification worker ack failed", err, logger.Fields{
					"messageId": message.ID,
				})
			}
		}
	}

	return nil
}

// processJob settles one stream message. A nil return means the message may
// be acknowledged: the mail was delivered, the job was rescheduled, or it was
// deliberately dropped. An error means the job is not safe to ack yet.
func (w *Worker) processJob(ctx context.Context, message redis.XMessage) error {
	raw, ok := message.Values["job"].(string)
	if !ok {
		// Malformed payload, nothing to retry. Ack so it cannot wedge the
		// group.
		logger.Error("notification worker invalid job format", nil, logger.Fields{
			"messageId": message.ID,
		})
		return nil
	}

	var job retryJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		logger.Error("notification worker unmarshal job failed", err, logger.Fields{
			"messageId": message.ID,
		})
		return nil
	}

	if wait := time.Until(job.NextAttemptAt); wait > 0 {
		select {
		case <-ctx.Done():
			// Requeue untouched so the next worker run picks it up.
			if err := w.queue.add(context.Background(), job); err != nil {
				return fmt.Errorf("requeue on shutdown: %w", err)
			}
			return nil
		case <-time.After(wait):
		}
	}

	sendErr := w.mailer.Send(ctx, job.Message)
	if sendErr == nil {
		logger.Info("notification worker delivered", logger.Fields{
			"to":      job.Message.To,
			"subject": job.Message.Subject,
			"attempt": job.Attempt,
		})
		return nil
	}

	if job.Attempt >= job.Policy.MaxAttempts {
		logger.Error("notification worker dropping job after max attempts", sendErr, logger.Fields{
			"to":       job.Message.To,
			"subject":  job.Message.Subject,
			"attempts": job.Attempt,
		})
		return nil
	}

	next := retryJob{
		Message:       job.Message,
		Attempt:       job.Attempt + 1,
		NextAttemptAt: time.Now().UTC().Add(job.Policy.Delay(job.Attempt + 1)),
		Policy:        job.Policy,
	}
	if err := w.queue.add(ctx, next); err != nil {
		return fmt.Errorf("reschedule attempt %d: %w", next.Attempt, err)
	}

	logger.Info("notification worker scheduled retry", logger.Fields{
		"to":            job.Message.To,
		"attempt":       next.Attempt,
		"nextAttemptAt": next.NextAttemptAt,
	})
	return nil
}
