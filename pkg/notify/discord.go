package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Discord posts alerts to a Discord channel webhook.
type Discord struct {
	WebhookURL string
	client     *retryablehttp.Client
}

// NewDiscord builds a Discord notifier for the given webhook URL.
func NewDiscord(webhookURL string) *Discord {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.HTTPClient.Timeout = 20 * time.Second
	client.Logger = nil
	return &Discord{WebhookURL: webhookURL, client: client}
}

func (d *Discord) Name() string { return "discord" }

// Send posts the body as the webhook message content. The subject is
// ignored; Discord messages have no subject line.
func (d *Discord) Send(ctx context.Context, subject, body string) error {
	payload, err := json.Marshal(map[string]string{"content": body})
	if err != nil {
		return err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, "POST", d.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook returned status %d", resp.StatusCode)
	}
	return nil
}
