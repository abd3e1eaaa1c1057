package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Telegram delivers formatted signals to a chat. The underlying HTTP client
// carries a bounded timeout so an unreachable Bot API cannot stall a webhook
// request, sends are rate limited, and transient failures are retried with
// exponential backoff.
type Telegram struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	limiter *rate.Limiter
	timeout time.Duration
	logger  zerolog.Logger
}

// NewTelegram authenticates against the Bot API and returns a dispatcher for
// the given chat.
func NewTelegram(token string, chatID int64, timeout time.Duration) (*Telegram, error) {
	client := &http.Client{Timeout: timeout}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}

	t := &Telegram{
		bot:    bot,
		chatID: chatID,
		// Telegram throttles sustained per-chat sends to roughly one message
		// per second.
		limiter: rate.NewLimiter(rate.Every(time.Second), 3),
		timeout: timeout,
		logger:  log.With().Str("component", "telegram").Logger(),
	}
	t.logger.Info().Str("bot", bot.Self.UserName).Int64("chat_id", chatID).Msg("Telegram dispatcher ready")
	return t, nil
}

// Send posts the message as Markdown. Failure is returned, never propagated
// as a panic; the caller reports it as a delivery status.
func (t *Telegram) Send(ctx context.Context, text string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true

	operation := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		if _, err := t.bot.Send(msg); err != nil {
			return fmt.Errorf("sendMessage failed: %w", err)
		}
		return nil
	}

	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.MaxElapsedTime = t.timeout

	if err := backoff.Retry(operation, backoff.WithContext(backoffStrategy, ctx)); err != nil {
		t.logger.Error().Err(err).Msg("Delivery failed after retries")
		return fmt.Errorf("after retries: %w", err)
	}

	t.logger.Debug().Int("chars", len(text)).Msg("Signal delivered")
	return nil
}
