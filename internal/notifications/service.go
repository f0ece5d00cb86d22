package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hylla/internal/catalog"
	"hylla/internal/config"
)

const userAgent = "Hylla-Go/0.1.0"

// Service defines the notification surface for ledger events.
type Service interface {
	NotifyIntegrityHold(ctx context.Context, entry *catalog.Entry, reason string) error
	NotifyBackfillCompleted(ctx context.Context, updated, failed int, duration time.Duration) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// Without a topic, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:        topic,
		client:          &http.Client{Timeout: timeout},
		integrityAlerts: cfg.Notifications.IntegrityAlerts,
		backfillSummary: cfg.Notifications.BackfillSummary,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint        string
	client          *http.Client
	integrityAlerts bool
	backfillSummary bool
}

func (n *ntfyService) NotifyIntegrityHold(ctx context.Context, entry *catalog.Entry, reason string) error {
	if !n.integrityAlerts {
		return nil
	}
	title := "unknown entry"
	if entry != nil {
		title = strings.TrimSpace(entry.Title)
	}
	data := payload{
		title:    "Hylla - Integrity Hold",
		message:  fmt.Sprintf("Entry frozen: %s\n%s\nRun 'hylla reconcile' after inspecting the ledger.", title, strings.TrimSpace(reason)),
		tags:     []string{"hylla", "integrity", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyBackfillCompleted(ctx context.Context, updated, failed int, duration time.Duration) error {
	if !n.backfillSummary {
		return nil
	}
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}

	var title, message string
	if failed == 0 {
		title = "Hylla - Backfill Complete"
		message = fmt.Sprintf("Metadata backfill complete: %d entries updated in %s", updated, duration)
	} else {
		title = "Hylla - Backfill Complete (with errors)"
		message = fmt.Sprintf("Metadata backfill complete: %d updated, %d failed in %s", updated, failed, duration)
	}
	data := payload{
		title:   title,
		message: message,
		tags:    []string{"hylla", "backfill", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Hylla - Test",
		message:  "Notification system test",
		tags:     []string{"hylla", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyIntegrityHold(context.Context, *catalog.Entry, string) error      { return nil }
func (noopService) NotifyBackfillCompleted(context.Context, int, int, time.Duration) error { return nil }
func (noopService) TestNotification(context.Context) error                                 { return nil }
