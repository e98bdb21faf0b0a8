// file: internals/features/school/attendance/notification/channel.go
package notification

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Channel: transport pengiriman (SMS gateway, WA, email, webhook, ...).
type Channel interface {
	Send(ctx context.Context, recipient, message string) (deliveryID string, err error)
}

/* =========================
   LogChannel (default)
   ========================= */

// LogChannel hanya menulis ke log. Dipakai kalau NOTIFY_WEBHOOK_URL kosong.
type LogChannel struct{}

func (LogChannel) Send(_ context.Context, recipient, message string) (string, error) {
	id := uuid.NewString()
	log.Printf("[NOTIFY] 📨 to=%s id=%s msg=%q", recipient, id, message)
	return id, nil
}

/* =========================
   WebhookChannel
   ========================= */

type webhookPayload struct {
	Recipient string `json:"recipient"`
	Message   string `json:"message"`
	SentAt    string `json:"sent_at"`
}

type webhookReply struct {
	ID        string `json:"id"`
	MessageID string `json:"message_id"`
}

// WebhookChannel POST JSON ke gateway notifikasi eksternal.
type WebhookChannel struct {
	URL     string
	Headers map[string]string
	Timeout time.Duration
}

func NewWebhookChannel(url string, timeout time.Duration) *WebhookChannel {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookChannel{URL: strings.TrimSpace(url), Timeout: timeout}
}

// WithAuthorization: header Authorization untuk gateway (kosong = tidak dikirim).
func (w *WebhookChannel) WithAuthorization(value string) *WebhookChannel {
	value = strings.TrimSpace(value)
	if value == "" {
		return w
	}
	if w.Headers == nil {
		w.Headers = map[string]string{}
	}
	w.Headers[fiber.HeaderAuthorization] = value
	return w
}

func (w *WebhookChannel) Send(ctx context.Context, recipient, message string) (string, error) {
	timeout := w.Timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return "", context.DeadlineExceeded
	}

	a := fiber.Post(w.URL)
	a.JSONEncoder(sonic.Marshal)
	a.Timeout(timeout)
	for k, v := range w.Headers {
		a.Set(k, v)
	}
	a.JSON(webhookPayload{
		Recipient: recipient,
		Message:   message,
		SentAt:    time.Now().UTC().Format(time.RFC3339),
	})
	if err := a.Parse(); err != nil {
		return "", fmt.Errorf("webhook parse: %w", err)
	}

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return "", fmt.Errorf("webhook send: %w", errs[0])
	}
	if code < 200 || code >= 300 {
		return "", fmt.Errorf("webhook status %d: %s", code, truncate(string(body), 200))
	}

	var reply webhookReply
	if len(body) > 0 && sonic.Unmarshal(body, &reply) == nil {
		if reply.ID != "" {
			return reply.ID, nil
		}
		if reply.MessageID != "" {
			return reply.MessageID, nil
		}
	}
	return uuid.NewString(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
