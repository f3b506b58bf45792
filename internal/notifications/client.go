// Package notifications pushes operator alerts through ntfy so a phone
// buzzes when an order completes or a vendor dispatch gets rejected.
package notifications

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	topic      string
	enabled    bool
	maxRetries int
	baseDelay  time.Duration
}

func NewClient(baseURL, topic string, enabled bool) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:    baseURL,
		topic:      topic,
		enabled:    enabled,
		maxRetries: 3,
		baseDelay:  500 * time.Millisecond,
	}
}

// NotifyOrderCompleted announces a finished order with its profit.
func (c *Client) NotifyOrderCompleted(ctx context.Context, service, target string, profit int64) {
	message := fmt.Sprintf("Order selesai: %s\nTarget: %s\nProfit: Rp %d", service, target, profit)
	c.sendAsync(ctx, "Order SUCCESS", message, "default")
}

// NotifyDispatchFailure announces a vendor rejection so the operator can
// top up the balance or fulfill manually.
func (c *Client) NotifyDispatchFailure(ctx context.Context, service, target, reason string) {
	message := fmt.Sprintf("Dispatch gagal: %s\nTarget: %s\nAlasan: %s", service, target, reason)
	c.sendAsync(ctx, "Vendor dispatch FAILED", message, "high")
}

func (c *Client) sendAsync(ctx context.Context, title, message, priority string) {
	if !c.enabled {
		log.Debug().Msg("Notifications disabled, skipping")
		return
	}
	// The caller is usually an HTTP handler whose request context dies as
	// soon as the response is written. Deliver on a detached context so an
	// alert fired just before an error response still goes out.
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := c.send(ctx, title, message, priority); err != nil {
			log.Warn().Err(err).Str("title", title).Msg("Notification failed")
		}
	}()
}

func (c *Client) send(ctx context.Context, title, message, priority string) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.baseDelay * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.sendOnce(ctx, title, message, priority); err != nil {
			lastErr = err
			log.Debug().
				Err(err).
				Int("attempt", attempt+1).
				Msg("Notification attempt failed")
			continue
		}
		return nil
	}
	return fmt.Errorf("notification failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) sendOnce(ctx context.Context, title, message, priority string) error {
	url := fmt.Sprintf("%s/%s", c.baseURL, c.topic)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBufferString(message))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Title", title)
	if priority != "" {
		req.Header.Set("Priority", priority)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	log.Debug().Str("title", title).Msg("Notification sent")
	return nil
}
