// Package notify posts deal lifecycle events to an external webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const (
	DealCreated      = "deal.created"
	DealStageChanged = "deal.stage_changed"
)

// Event describes a deal lifecycle change.
type Event struct {
	Type          string    `json:"type"`
	DealID        uint      `json:"dealId"`
	DealName      string    `json:"dealName"`
	Stage         string    `json:"stage"`
	PreviousStage string    `json:"previousStage,omitempty"`
	OwnerID       uint      `json:"ownerId"`
	Amount        float64   `json:"amount"`
	At            time.Time `json:"at"`
}

// Notifier receives deal events. Implementations must not block the caller.
type Notifier interface {
	Notify(ctx context.Context, e Event)
}

// Nop drops every event. Used when no webhook is configured.
type Nop struct{}

func (Nop) Notify(context.Context, Event) {}

// Multi fans each event out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, e Event) {
	for _, n := range m {
		n.Notify(ctx, e)
	}
}

// Webhook delivers events in the background. Delivery failures are logged
// and never reach the caller.
type Webhook struct {
	URL    string
	HTTP   *http.Client
	Logger *slog.Logger

	wg sync.WaitGroup
}

// NewWebhook returns a Webhook posting to url with a 10s client timeout.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		URL:    url,
		HTTP:   &http.Client{Timeout: 10 * time.Second},
		Logger: slog.Default(),
	}
}

// New returns a Webhook for url, or Nop when url is empty.
func New(url string) Notifier {
	if url == "" {
		return Nop{}
	}
	return NewWebhook(url)
}

// Notify posts e in a background goroutine. Call Wait to drain pending posts.
func (wh *Webhook) Notify(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	ctx = context.WithoutCancel(ctx)
	wh.wg.Add(1)
	go func() {
		defer wh.wg.Done()
		if err := wh.Send(ctx, e); err != nil {
			wh.Logger.Warn("webhook delivery failed", "event", e.Type, "dealId", e.DealID, "error", err)
		}
	}()
}

// Send posts e synchronously.
func (wh *Webhook) Send(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wh.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := wh.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook answered %d", resp.StatusCode)
	}
	return nil
}

// Wait blocks until every pending delivery has finished.
func (wh *Webhook) Wait() {
	wh.wg.Wait()
}
