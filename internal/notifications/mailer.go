package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Mailer attempts a single immediate delivery. A returned error is a normal
// outcome for the gateway, never for the financial operation above it.
type Mailer interface {
	Send(ctx context.Context, message EmailMessage) error
}

// APIMailer delivers through a mail provider's HTTP API. It is an explicit
// capability object constructed once at process start; no package state.
type APIMailer struct {
	endpoint string
	apiKey   string
	from     string
	client   *http.Client
}

func NewAPIMailer(endpoint, apiKey, from string) *APIMailer {
	return &APIMailer{
		endpoint: endpoint,
		apiKey:   apiKey,
		from:     from,
		// Bounded timeout so a slow provider cannot stall the caller.
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (m *APIMailer) Send(ctx context.Context, message EmailMessage) error {
	payload, err := json.Marshal(struct {
		From    string `json:"from"`
		To      string `json:"to"`
		Subject string `json:"subject"`
		Text    string `json:"text"`
	}{
		From:    m.from,
		To:      message.To,
		Subject: message.Subject,
		Text:    message.Body,
	})
	if err != nil {
		return fmt.Errorf("marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mail provider returned status %d", resp.StatusCode)
	}

	return nil
}
