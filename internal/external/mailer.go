package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// MailerConfig holds settings for the outbound mail service.
type MailerConfig struct {
	BaseURL string
	APIKey  string
	From    string
	Timeout time.Duration
}

// Mailer sends transactional email through an HTTP mail service. When no
// BaseURL is configured every send is a no-op, which keeps local and test
// environments free of a mail dependency.
type Mailer struct {
	config MailerConfig
	client *http.Client
}

// Message is a single outbound email.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func NewMailer(cfg MailerConfig) *Mailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Mailer{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Send posts the message to the mail service.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if m.config.BaseURL == "" {
		return nil
	}

	msg := Message{
		From:    m.config.From,
		To:      to,
		Subject: subject,
		Body:    body,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.BaseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.config.APIKey)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail service returned status %d", resp.StatusCode)
	}

	return nil
}
