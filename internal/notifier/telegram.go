package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/wevity-contests/internal/contest"
	"github.com/pfrederiksen/wevity-contests/internal/logger"
	"github.com/pfrederiksen/wevity-contests/internal/telegram"
)

type messageSender interface {
	SendMessage(ctx context.Context, text string) error
}

// TelegramNotifier posts a digest of all records to one chat
type TelegramNotifier struct {
	client messageSender
	delay  time.Duration
	now    func() time.Time
	log    *logger.Logger
}

// NewTelegramNotifier creates a Telegram notifier for a bot token and chat ID
func NewTelegramNotifier(botToken, chatID string, log *logger.Logger) (*TelegramNotifier, error) {
	client, err := telegram.NewClient(botToken, chatID)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w (set TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID)", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TelegramNotifier{client: client, delay: time.Second, now: time.Now, log: log}, nil
}

// Notify sends the digest, split into as many messages as the length limit requires
func (n *TelegramNotifier) Notify(ctx context.Context, records []*contest.Record) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	messages := telegram.FormatDigest(records, n.now())
	for i, msg := range messages {
		if err := n.client.SendMessage(ctx, msg); err != nil {
			n.log.Metrics().IncrCounter("telegram.failed")
			return fmt.Errorf("failed to send digest part %d/%d: %w", i+1, len(messages), err)
		}
		n.log.Metrics().IncrCounter("telegram.sent")

		if i < len(messages)-1 && n.delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.delay):
			}
		}
	}

	n.log.Info("Telegram digest sent", logger.Fields{"records": len(records), "messages": len(messages)})
	return nil
}
