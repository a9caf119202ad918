// internal/infra/telegram/client.go
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// NewBot creates a send-only bot. apiURL may be empty to use the public Bot API.
// The bot is built offline: no getMe call is made, so an unreachable API
// surfaces later as a failed send instead of a startup error.
func NewBot(token, apiURL string, timeout time.Duration, logger *logrus.Entry) (*telebot.Bot, error) {
	pref := telebot.Settings{
		URL:     apiURL,
		Token:   token,
		Client:  &http.Client{Timeout: timeout},
		Offline: true,
		OnError: func(err error, c telebot.Context) {
			logger.WithError(err).Error("Telebot error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return bot, nil
}

// TelebotAdapter implements the domain Client interface using gopkg.in/telebot.v3.
// Sends are paced by a token bucket to stay under the Bot API limits.
type TelebotAdapter struct {
	bot     *telebot.Bot
	limiter *rate.Limiter
}

func NewTelebotAdapter(b *telebot.Bot, ratePerSec int) *TelebotAdapter {
	if ratePerSec <= 0 {
		ratePerSec = 1
	}
	return &TelebotAdapter{
		bot:     b,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec),
	}
}

// SendMessage sends a text message to the specified chat.
func (tba *TelebotAdapter) SendMessage(ctx context.Context, chatID int64, text string) error {
	if err := tba.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("send to chat %d not attempted: %w", chatID, err)
	}
	if _, err := tba.bot.Send(&telebot.Chat{ID: chatID}, text); err != nil {
		return fmt.Errorf("send to chat %d: %w", chatID, err)
	}
	return nil
}
