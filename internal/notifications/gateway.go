package notifications

import (
	"context"

	"github.com/api-sage/wallet-ledger/internal/logger"
)

// Gateway is the engine's notification collaborator. It attempts immediate
// delivery and falls back to the durable retry queue; nothing it does can
// fail or roll back the financial operation that triggered it.
type Gateway struct {
	mailer Mailer
	queue  RetryQueue
	policy RetryPolicy
}

func NewGateway(mailer Mailer, queue RetryQueue) *Gateway {
	return &Gateway{
		mailer: mailer,
		queue:  queue,
		policy: DefaultRetryPolicy,
	}
}

// Notify sends best-effort. Delivery failure is swallowed: the message is
// handed to the retry queue and the failure is only logged.
func (g *Gateway) Notify(ctx context.Context, to, subject, body string) {
	message := EmailMessage{To: to, Subject: subject, Body: body}

	err := g.mailer.Send(ctx, message)
	if err == nil {
		logger.Info("notification gateway delivered", logger.Fields{
			"to":      to,
			"subject": subject,
		})
		return
	}

	logger.Error("notification gateway immediate delivery failed", err, logger.Fields{
		"to":      to,
		"subject": subject,
	})

	if enqueueErr := g.queue.Enqueue(ctx, message, g.policy); enqueueErr != nil {
		logger.Error("notification gateway enqueue failed", enqueueErr, logger.Fields{
			"to":      to,
			"subject": subject,
		})
	}
}
