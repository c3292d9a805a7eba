package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	appnotification "github.com/zenshop/orderd/internal/application/notification"
	"github.com/zenshop/orderd/internal/observability"
)

const componentWebhook = "webhook_client"

// Client POSTs webhook payloads to a single configured endpoint. Calls are
// bounded by the configured timeout and never retried; a slow or unreachable
// endpoint must not stall order placement.
type Client struct {
	url      string
	client   *http.Client
	log      observability.Logger
	requests observability.Counter
}

func NewClient(url string, timeout time.Duration, tel observability.Observability) *Client {
	if tel == nil {
		tel = observability.Nop()
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		url:      url,
		client:   &http.Client{Timeout: timeout},
		log:      tel.Logger().With(observability.F("component", componentWebhook)),
		requests: tel.Metrics().Counter(observability.MWebhookRequests),
	}
}

func (c *Client) Deliver(ctx context.Context, p appnotification.WebhookPayload) error {
	body, err := json.Marshal(p)
	if err != nil {
		c.count("error")
		return fmt.Errorf("webhook: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		c.count("error")
		return fmt.Errorf("webhook: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.count("error")
		return fmt.Errorf("webhook: post: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.count("error")
		return fmt.Errorf("webhook: unexpected status %d", resp.StatusCode)
	}

	c.count("success")
	c.log.Debug("webhook_delivered",
		observability.F("order_id", p.OrderID),
		observability.F("status", resp.StatusCode),
	)
	return nil
}

func (c *Client) count(outcome string) {
	c.requests.Add(1, observability.L("outcome", outcome))
}
