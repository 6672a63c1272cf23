package telegram

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/gotd/td/tg"
	messageDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/message/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	msgs   []*messageDomain.Message
	closed bool
}

func (d *recordingDispatcher) Dispatch(msg *messageDomain.Message) bool {
	if d.closed {
		return false
	}
	d.msgs = append(d.msgs, msg)
	return true
}

func newTestListener(d Dispatcher) *Listener {
	return NewListener(ListenerConfig{SessionPath: "session.json"}, d, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestListener_Handle(t *testing.T) {
	d := &recordingDispatcher{}
	l := newTestListener(d)

	l.handle(&tg.Message{ID: 1, PeerID: &tg.PeerChannel{ChannelID: 1234567890}, Message: "wallet1"}, entities())
	l.handle(&tg.MessageService{ID: 2, PeerID: &tg.PeerChannel{ChannelID: 1234567890}}, entities())

	require.Len(t, d.msgs, 1)
	assert.Equal(t, int64(-1001234567890), d.msgs[0].Chat.ID)
	assert.Equal(t, "Flats", d.msgs[0].Chat.Title)
	assert.Equal(t, "wallet1", d.msgs[0].Text)

	d.closed = true
	assert.NotPanics(t, func() {
		l.handle(&tg.Message{ID: 3, PeerID: &tg.PeerChat{ChatID: 555}}, entities())
	})
}

func TestListener_PromptCode(t *testing.T) {
	l := newTestListener(&recordingDispatcher{})
	out := &bytes.Buffer{}
	l.codeIn = strings.NewReader(" 12345 \n")
	l.codeOut = out

	code, err := l.promptCode(context.Background(), &tg.AuthSentCode{})
	require.NoError(t, err)
	assert.Equal(t, "12345", code)
	assert.Contains(t, out.String(), "login code")

	l.codeIn = strings.NewReader("")
	_, err = l.promptCode(context.Background(), &tg.AuthSentCode{})
	assert.Error(t, err)
}

func TestListener_PromptCodeCancelled(t *testing.T) {
	l := newTestListener(&recordingDispatcher{})
	r, w := io.Pipe()
	defer w.Close()
	l.codeIn = r
	l.codeOut = io.Discard

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.promptCode(ctx, &tg.AuthSentCode{})
	assert.ErrorIs(t, err, context.Canceled)
}
