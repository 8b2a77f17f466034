package notification

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Muhannad-Khaled/Ailigent/internal/config"
)

const webhookAttempts = 3

// WebhookSender posts signed event payloads to the configured endpoint.
type WebhookSender struct {
	url    string
	secret string
	client *http.Client
	logger *zap.Logger
	sleep  func(time.Duration)
}

type webhookBody struct {
	EventType string          `json:"event_type"`
	Timestamp string          `json:"timestamp"`
	Source    string          `json:"source"`
	Data      json.RawMessage `json:"data"`
}

func NewWebhookSender(cfg config.Webhook, logger ...*zap.Logger) *WebhookSender {
	l := zap.L().Named("notification.webhook")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.webhook")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &WebhookSender{
		url:    cfg.URL,
		secret: cfg.Secret,
		client: &http.Client{Timeout: timeout},
		logger: l,
		sleep:  time.Sleep,
	}
}

// Send posts {event_type, timestamp, source, data} with an HMAC-SHA256
// signature over the exact body bytes. Non-2xx responses are retried with
// 1s/2s backoff between the three attempts.
func (s *WebhookSender) Send(ctx context.Context, eventType string, data []byte) error {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	body, err := json.Marshal(webhookBody{
		EventType: eventType,
		Timestamp: timestamp,
		Source:    "ailigent",
		Data:      data,
	})
	if err != nil {
		return err
	}

	signature := s.sign(body)

	var lastErr error
	for attempt := 1; attempt <= webhookAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Webhook-Signature", signature)
		req.Header.Set("X-Event-Type", eventType)
		req.Header.Set("X-Timestamp", timestamp)

		resp, err := s.client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				s.logger.Info("webhook delivered",
					zap.String("event_type", eventType),
					zap.Int("attempt", attempt),
				)
				return nil
			}
			err = fmt.Errorf("webhook returned status %d", resp.StatusCode)
		}

		lastErr = err
		s.logger.Warn("webhook attempt failed",
			zap.String("event_type", eventType),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if attempt < webhookAttempts {
			s.sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}
	}

	return fmt.Errorf("webhook delivery failed after %d attempts: %w", webhookAttempts, lastErr)
}

func (s *WebhookSender) sign(body []byte) string {
	if s.secret == "" {
		return "none"
	}
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
