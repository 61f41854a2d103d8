package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/cohorent/backend/internal/contracts"
	"github.com/wonny/cohorent/backend/pkg/httputil"
)

// WebhookPayload is the JSON body posted to the alert webhook
type WebhookPayload struct {
	Event       string                       `json:"event"`
	SentAt      time.Time                    `json:"sentAt"`
	Count       int                          `json:"count"`
	Transitions []contracts.StatusTransition `json:"transitions"`
}

// WebhookNotifier posts alerts as JSON
type WebhookNotifier struct {
	client *httputil.Client
	url    string
	now    func() time.Time
}

// NewWebhookNotifier creates a new notifier
func NewWebhookNotifier(client *httputil.Client, url string) *WebhookNotifier {
	return &WebhookNotifier{client: client, url: url, now: time.Now}
}

// NotifyTransitions posts one payload for the batch
func (n *WebhookNotifier) NotifyTransitions(ctx context.Context, transitions []contracts.StatusTransition) error {
	if len(transitions) == 0 {
		return nil
	}

	payload := WebhookPayload{
		Event:       "status_transitions",
		SentAt:      n.now().UTC(),
		Count:       len(transitions),
		Transitions: transitions,
	}
	if err := n.client.SendJSON(ctx, n.url, payload); err != nil {
		return fmt.Errorf("webhook send: %w", err)
	}
	return nil
}
