package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookMessage is the JSON body posted by Webhook.
type WebhookMessage struct {
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Webhook posts alerts as JSON to any HTTP endpoint.
type Webhook struct {
	URL    string
	Client *http.Client
	now    func() time.Time
}

// NewWebhook returns nil for an empty URL.
func NewWebhook(url string) *Webhook {
	if url == "" {
		return nil
	}
	return &Webhook{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
		now:    time.Now,
	}
}

func (w *Webhook) Send(ctx context.Context, title, text string) error {
	data, err := json.Marshal(WebhookMessage{Title: title, Text: text, Timestamp: w.now().UTC()})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}

// FromURLs builds the notifiers that are configured, or nil if none is.
func FromURLs(slackWebhook, webhook string) Notifier {
	var m Multi
	if s := NewSlack(slackWebhook); s != nil {
		m = append(m, s)
	}
	if w := NewWebhook(webhook); w != nil {
		m = append(m, w)
	}
	switch len(m) {
	case 0:
		return nil
	case 1:
		return m[0]
	}
	return m
}
