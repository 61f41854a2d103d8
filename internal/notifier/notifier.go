// Package notifier delivers status-label change alerts.
package notifier

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/wonny/cohorent/backend/internal/contracts"
	"github.com/wonny/cohorent/backend/pkg/config"
	"github.com/wonny/cohorent/backend/pkg/httputil"
	"github.com/wonny/cohorent/backend/pkg/logger"
	"github.com/wonny/cohorent/backend/pkg/redis"
)

// Notifier sends one alert per batch of status transitions
type Notifier interface {
	NotifyTransitions(ctx context.Context, transitions []contracts.StatusTransition) error
}

// Noop discards alerts
type Noop struct{}

func (Noop) NotifyTransitions(context.Context, []contracts.StatusTransition) error { return nil }

// Multi fans out to several notifiers and joins their errors
type Multi []Notifier

func (m Multi) NotifyTransitions(ctx context.Context, transitions []contracts.StatusTransition) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyTransitions(ctx, transitions); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FromConfig builds the configured notifiers (none configured → Noop)
func FromConfig(cfg *config.Config, log *logger.Logger, rdb *redis.Client) (Notifier, error) {
	var out Multi

	if cfg.Notifier.TelegramToken != "" {
		api, err := tgbotapi.NewBotAPI(cfg.Notifier.TelegramToken)
		if err != nil {
			return nil, fmt.Errorf("telegram bot init: %w", err)
		}
		out = append(out, NewTelegramNotifier(api, cfg.Notifier.TelegramChatID))
		log.WithField("chat_id", cfg.Notifier.TelegramChatID).Info("Telegram alerts enabled")
	}

	if cfg.Notifier.WebhookURL != "" {
		client := httputil.New(log)
		if rdb != nil && rdb.Enabled() {
			client = client.WithRateLimiter(redis.NewRateLimiter(rdb, "cohorent"), redis.WebhookRateLimit)
		}
		out = append(out, NewWebhookNotifier(client, cfg.Notifier.WebhookURL))
		log.Info("Webhook alerts enabled")
	}

	switch len(out) {
	case 0:
		return Noop{}, nil
	case 1:
		return out[0], nil
	default:
		return out, nil
	}
}
