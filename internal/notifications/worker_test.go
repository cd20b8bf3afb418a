package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type retryAdderStub struct {
	err  error
	jobs []retryJob
}

func (s *retryAdderStub) add(_ context.Context, job retryJob) error {
	if s.err != nil {
		return s.err
	}
	s.jobs = append(s.jobs, job)
	return nil
}

func jobMessage(t *testing.T, job retryJob) redis.XMessage {
	t.Helper()
	payload, err := json.Marshal(job)
	if err != nil {
		t.Fatalf("marshal job: %v", err)
	}
	return redis.XMessage{
		ID:     "1-1",
		Values: map[string]any{"job": string(payload)},
	}
}

func TestWorkerProcessJobDeliveredIsSettled(t *testing.T) {
	mailer := &mailerStub{}
	w := &Worker{mailer: mailer, queue: &retryAdderStub{}}

	job := retryJob{
		Message: EmailMessage{To: "ada@example.com", Subject: "Deposit Successful"},
		Attempt: 1,
		Policy:  DefaultRetryPolicy,
	}
	if err := w.processJob(context.Background(), jobMessage(t, job)); err != nil {
		t.Fatalf("expected settled job, got %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected one delivery, got %d", len(mailer.sent))
	}
}

func TestWorkerProcessJobReschedulesWithDoubledDelay(t *testing.T) {
	mailer := &mailerStub{err: errors.New("smtp relay down")}
	queue := &retryAdderStub{}
	w := &Worker{mailer: mailer, queue: queue}

	job := retryJob{
		Message: EmailMessage{To: "ada@example.com", Subject: "Withdrawal Failed"},
		Attempt: 2,
		Policy:  RetryPolicy{MaxAttempts: 5, InitialDelay: 5 * time.Second},
	}
	before := time.Now().UTC()
	if err := w.processJob(context.Background(), jobMessage(t, job)); err != nil {
		t.Fatalf("expected settled job after reschedule, got %v", err)
	}

	if len(queue.jobs) != 1 {
		t.Fatalf("expected one rescheduled job, got %d", len(queue.jobs))
	}
	next := queue.jobs[0]
	if next.Attempt != 3 {
		t.Fatalf("expected attempt 3, got %d", next.Attempt)
	}
	// Attempt 3 of a 5s policy waits 20s.
	earliest := before.Add(20 * time.Second)
	if next.NextAttemptAt.Before(earliest.Add(-time.Second)) || next.NextAttemptAt.After(earliest.Add(5*time.Second)) {
		t.Fatalf("expected next attempt around %s, got %s", earliest, next.NextAttemptAt)
	}
}

func TestWorkerProcessJobNotSettledWhenRescheduleFails(t *testing.T) {
	mailer := &mailerStub{err: errors.New("smtp relay down")}
	queue := &retryAdderStub{err: errors.New("stream unavailable")}
	w := &Worker{mailer: mailer, queue: queue}

	job := retryJob{
		Message: EmailMessage{To: "ada@example.com", Subject: "Withdrawal Failed"},
		Attempt: 1,
		Policy:  DefaultRetryPolicy,
	}
	if err := w.processJob(context.Background(), jobMessage(t, job)); err == nil {
		t.Fatal("expected error so the message stays pending, got nil")
	}
}

func TestWorkerProcessJobDropsAfterMaxAttempts(t *testing.T) {
	mailer := &mailerStub{err: errors.New("smtp relay down")}
	queue := &retryAdderStub{}
	w := &Worker{mailer: mailer, queue: queue}

	job := retryJob{
		Message: EmailMessage{To: "ada@example.com", Subject: "Withdrawal Failed"},
		Attempt: 5,
		Policy:  DefaultRetryPolicy,
	}
	if err := w.processJob(context.Background(), jobMessage(t, job)); err != nil {
		t.Fatalf("expected dropped job to be settled, got %v", err)
	}
	if len(queue.jobs) != 0 {
		t.Fatalf("expected no reschedule past max attempts, got %d", len(queue.jobs))
	}
}

func TestWorkerProcessJobMalformedPayloadIsSettled(t *testing.T) {
	w := &Worker{mailer: &mailerStub{}, queue: &retryAdderStub{}}

	message := redis.XMessage{ID: "1-2", Values: map[string]any{"job": "{not json"}}
	if err := w.processJob(context.Background(), message); err != nil {
		t.Fatalf("expected malformed payload to be settled, got %v", err)
	}

	missing := redis.XMessage{ID: "1-3", Values: map[string]any{}}
	if err := w.processJob(context.Background(), missing); err != nil {
		t.Fatalf("expected missing payload to be settled, got %v", err)
	}
}
