package notifier

import (
	"context"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/wonny/cohorent/backend/internal/contracts"
)

// messageSender is the part of *tgbotapi.BotAPI we use
type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts HTML alerts to one chat
type TelegramNotifier struct {
	api    messageSender
	chatID int64
}

// NewTelegramNotifier creates a new notifier
func NewTelegramNotifier(api messageSender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{api: api, chatID: chatID}
}

// NotifyTransitions sends a single message listing all transitions
func (n *TelegramNotifier) NotifyTransitions(ctx context.Context, transitions []contracts.StatusTransition) error {
	if len(transitions) == 0 {
		return nil
	}

	msg := tgbotapi.NewMessage(n.chatID, FormatTransitionsHTML(transitions))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// FormatTransitionsHTML renders transitions with Telegram HTML formatting
func FormatTransitionsHTML(transitions []contracts.StatusTransition) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Portfolio status changes (%d)</b>\n", len(transitions)))

	for _, t := range transitions {
		arrow := "🔻"
		if t.IsUpgrade() {
			arrow = "🔺"
		}
		b.WriteString(fmt.Sprintf("\n%s <b>%s</b>\n", arrow, html.EscapeString(t.ProductName)))
		b.WriteString(fmt.Sprintf("%s → %s  (%d → %d)\n", t.From, t.To, t.PreviousRating, t.Rating))
		b.WriteString(fmt.Sprintf("<code>%s</code>\n", html.EscapeString(t.ProductID)))
	}
	return b.String()
}
