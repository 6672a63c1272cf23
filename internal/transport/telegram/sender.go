package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	alertDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/alert/domain"
	"github.com/samber/oops"
)

// messageSender is the part of *bot.Bot used for alerts.
type messageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// BotSender posts rendered alerts through the Bot API.
type BotSender struct {
	api    messageSender
	logger *slog.Logger
}

// NewBotSender creates a new bot sender
func NewBotSender(api messageSender, logger *slog.Logger) *BotSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &BotSender{
		api:    api,
		logger: logger.With("component", "bot_sender"),
	}
}

// Send posts html to chatID with link previews disabled. Errors are mapped
// onto the alert error kinds so the notifier can pick a retry strategy.
func (s *BotSender) Send(ctx context.Context, chatID int64, html string) error {
	_, err := s.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      html,
		ParseMode: models.ParseModeHTML,
		LinkPreviewOptions: &models.LinkPreviewOptions{
			IsDisabled: bot.True(),
		},
	})

	var migrate *bot.MigrateError
	if errors.As(err, &migrate) {
		s.logger.Error("Target group was upgraded to a supergroup, update target_chat_id",
			"target_chat_id", chatID,
			"migrate_to_chat_id", migrate.MigrateToChatID,
		)
	}
	return classify(err)
}

func classify(err error) error {
	if err == nil {
		return nil
	}

	var tooMany *bot.TooManyRequestsError
	var migrate *bot.MigrateError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.As(err, &tooMany):
		return &alertDomain.RateLimitedError{
			RetryAfter: time.Duration(tooMany.RetryAfter) * time.Second,
			Err:        err,
		}
	case errors.As(err, &migrate):
		// the old chat id never works again
		return oops.With("migrate_to_chat_id", migrate.MigrateToChatID).Wrap(err)
	case errors.Is(err, bot.ErrorForbidden):
		return fmt.Errorf("%w: %w", alertDomain.ErrForbidden, err)
	case errors.Is(err, bot.ErrorBadRequest),
		errors.Is(err, bot.ErrorUnauthorized),
		errors.Is(err, bot.ErrorNotFound):
		return err
	default:
		return &alertDomain.TransientError{Err: err}
	}
}
