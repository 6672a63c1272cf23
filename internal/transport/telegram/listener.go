package telegram

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/updates"
	"github.com/gotd/td/tg"
	messageDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/message/domain"
	"github.com/reshetovitsme/keyword-monitor/internal/shared/errors"
	"github.com/samber/oops"
)

// Dispatcher accepts inbound messages for asynchronous handling.
type Dispatcher interface {
	Dispatch(msg *messageDomain.Message) bool
}

// ListenerConfig holds the user-account credentials of the MTProto client.
type ListenerConfig struct {
	APIID       int
	APIHash     string
	Phone       string
	Password    string
	SessionPath string
}

// Listener receives new-message updates with a user account and hands
// them to the pipeline.
type Listener struct {
	cfg      ListenerConfig
	dispatch Dispatcher
	logger   *slog.Logger

	codeIn  io.Reader
	codeOut io.Writer
}

// NewListener creates a new MTProto listener
func NewListener(cfg ListenerConfig, dispatch Dispatcher, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		cfg:      cfg,
		dispatch: dispatch,
		logger:   logger.With("component", "listener"),
		codeIn:   os.Stdin,
		codeOut:  os.Stdout,
	}
}

// Run connects, authenticates when the session is missing and blocks
// while updates are streamed. It returns when ctx is cancelled or the
// connection is lost.
func (l *Listener) Run(ctx context.Context) error {
	if dir := filepath.Dir(l.cfg.SessionPath); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return oops.With("session_path", l.cfg.SessionPath).Wrap(err)
		}
	}

	dispatcher := tg.NewUpdateDispatcher()
	dispatcher.OnNewMessage(func(ctx context.Context, e tg.Entities, u *tg.UpdateNewMessage) error {
		l.handle(u.Message, e)
		return nil
	})
	dispatcher.OnNewChannelMessage(func(ctx context.Context, e tg.Entities, u *tg.UpdateNewChannelMessage) error {
		l.handle(u.Message, e)
		return nil
	})

	gaps := updates.New(updates.Config{Handler: dispatcher})

	client := telegram.NewClient(l.cfg.APIID, l.cfg.APIHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: l.cfg.SessionPath},
		UpdateHandler:  gaps,
	})

	err := client.Run(ctx, func(ctx context.Context) error {
		if err := l.authenticate(ctx, client); err != nil {
			return err
		}

		self, err := client.Self(ctx)
		if err != nil {
			return oops.With("context", "fetching own account").Wrap(err)
		}

		return gaps.Run(ctx, client.API(), self.ID, updates.AuthOptions{
			OnStart: func(ctx context.Context) {
				l.logger.Info("Listening for new messages", "user_id", self.ID, "username", self.Username)
			},
		})
	})
	if err != nil {
		return oops.With("context", "mtproto update stream").Wrap(err)
	}
	return nil
}

func (l *Listener) authenticate(ctx context.Context, client *telegram.Client) error {
	status, err := client.Auth().Status(ctx)
	if err != nil {
		return oops.With("context", "checking auth status").Wrap(err)
	}
	if status.Authorized {
		l.logger.Info("Session restored", "session_path", l.cfg.SessionPath)
		return nil
	}
	if l.cfg.Phone == "" {
		return oops.With("context", "no session and no phone configured").Wrap(errors.ErrUnauthorized)
	}

	l.logger.Info("Not authorized, starting login flow")
	flow := auth.NewFlow(
		auth.Constant(l.cfg.Phone, l.cfg.Password, auth.CodeAuthenticatorFunc(l.promptCode)),
		auth.SendCodeOptions{},
	)
	if err := client.Auth().IfNecessary(ctx, flow); err != nil {
		return oops.With("context", "login").Wrap(err)
	}
	l.logger.Info("Login successful")
	return nil
}

// promptCode reads the login code from the terminal.
func (l *Listener) promptCode(ctx context.Context, _ *tg.AuthSentCode) (string, error) {
	fmt.Fprint(l.codeOut, "Enter the login code sent by Telegram: ")

	type result struct {
		code string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := bufio.NewReader(l.codeIn).ReadString('\n')
		ch <- result{code: strings.TrimSpace(line), err: err}
	}()

	select {
	case r := <-ch:
		if r.code == "" && r.err != nil {
			return "", oops.With("context", "reading login code").Wrap(r.err)
		}
		return r.code, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (l *Listener) handle(m tg.MessageClass, e tg.Entities) {
	msg, ok := toMessage(m, e)
	if !ok {
		return
	}
	if !l.dispatch.Dispatch(msg) {
		l.logger.Debug("Pipeline closed, message not handled", "chat_id", msg.Chat.ID, "message_id", msg.ID)
	}
}
