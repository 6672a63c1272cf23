package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	alertDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/alert/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBotAPI struct {
	params []*bot.SendMessageParams
	err    error
}

func (f *fakeBotAPI) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.params = append(f.params, params)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Message{ID: len(f.params)}, nil
}

func TestBotSender_Send(t *testing.T) {
	api := &fakeBotAPI{}
	s := NewBotSender(api, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, s.Send(context.Background(), -100777, "<b>hi</b>"))
	require.Len(t, api.params, 1)

	p := api.params[0]
	assert.Equal(t, int64(-100777), p.ChatID)
	assert.Equal(t, "<b>hi</b>", p.Text)
	assert.Equal(t, models.ParseModeHTML, p.ParseMode)
	require.NotNil(t, p.LinkPreviewOptions)
	require.NotNil(t, p.LinkPreviewOptions.IsDisabled)
	assert.True(t, *p.LinkPreviewOptions.IsDisabled)
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))

	t.Run("too many requests", func(t *testing.T) {
		err := classify(fmt.Errorf("send: %w", &bot.TooManyRequestsError{Message: "slow down", RetryAfter: 7}))
		var rl *alertDomain.RateLimitedError
		require.ErrorAs(t, err, &rl)
		assert.Equal(t, 7*time.Second, rl.RetryAfter)
		assert.Equal(t, alertDomain.ReasonRateLimited, alertDomain.Reason(err))
	})

	t.Run("forbidden", func(t *testing.T) {
		err := classify(fmt.Errorf("%w, bot was kicked", bot.ErrorForbidden))
		assert.ErrorIs(t, err, alertDomain.ErrForbidden)
		assert.Equal(t, alertDomain.ReasonForbidden, alertDomain.Reason(err))
	})

	t.Run("permanent", func(t *testing.T) {
		for _, base := range []error{bot.ErrorBadRequest, bot.ErrorUnauthorized, bot.ErrorNotFound} {
			err := classify(fmt.Errorf("%w, details", base))
			assert.Equal(t, alertDomain.ReasonPermanent, alertDomain.Reason(err), base.Error())
		}
	})

	t.Run("upgraded group is permanent", func(t *testing.T) {
		err := classify(&bot.MigrateError{Message: "bad request: group chat was upgraded to a supergroup chat", MigrateToChatID: -1009876543210})
		assert.Equal(t, alertDomain.ReasonPermanent, alertDomain.Reason(err))

		var migrate *bot.MigrateError
		require.ErrorAs(t, err, &migrate)
		assert.EqualValues(t, -1009876543210, migrate.MigrateToChatID)
	})

	t.Run("context", func(t *testing.T) {
		assert.ErrorIs(t, classify(context.Canceled), context.Canceled)
		assert.Equal(t, alertDomain.ReasonCanceled, alertDomain.Reason(classify(context.DeadlineExceeded)))
	})

	t.Run("network failure is transient", func(t *testing.T) {
		err := classify(errors.New("dial tcp: connection reset"))
		assert.Equal(t, alertDomain.ReasonTransient, alertDomain.Reason(err))
	})
}

func TestBotSender_SendUpgradedGroupNotRetried(t *testing.T) {
	api := &fakeBotAPI{err: &bot.MigrateError{Message: "bad request: group chat was upgraded", MigrateToChatID: -1009876543210}}
	s := NewBotSender(api, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := s.Send(context.Background(), -555, "<b>hi</b>")
	require.Error(t, err)

	var transient *alertDomain.TransientError
	assert.False(t, errors.As(err, &transient))
	assert.Equal(t, alertDomain.ReasonPermanent, alertDomain.Reason(err))
}
