// Package telegram pushes a short summary to a chat when an extraction pass
// completes. Purely optional: without a bot token the notifier is simply not
// constructed.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ajinkyagorad/fb-events-map/internal/models/domain"
	"github.com/ajinkyagorad/fb-events-map/internal/models/dto"
)

type Notifier struct {
	logger *slog.Logger
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewNotifier(logger *slog.Logger, token string, chatID int64) (*Notifier, error) {
	op := "telegram.NewNotifier()"

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("telegram notifier ready",
		slog.String("op", op),
		slog.String("account", bot.Self.UserName),
	)
	return &Notifier{logger: logger, bot: bot, chatID: chatID}, nil
}

// PassCompleted sends the pass summary plus the first few upcoming events.
func (n *Notifier) PassCompleted(ctx context.Context, summary dto.ExtractSummary, top []domain.EventRecord) error {
	op := "telegram.Notifier.PassCompleted()"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Events updated: %d found, %d mappable.\n", summary.Count, summary.Mappable)
	for _, ev := range top {
		b.WriteString("\n• " + ev.Title)
		if ev.TimeText != "" {
			b.WriteString(" - " + ev.TimeText)
		}
		if ev.URL != "" {
			b.WriteString("\n  " + ev.URL)
		}
	}

	msg := tgbotapi.NewMessage(n.chatID, b.String())
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
