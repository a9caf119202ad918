package telegram

import "context"

// Client sends a plain text message to a Telegram chat.
// It keeps the notification logic independent from the bot library.
type Client interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}
